package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"mg_dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

// HealthChecker is the store's round-trip probe
type HealthChecker interface {
	HealthCheck(ctx context.Context) domain.HealthStatus
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store       HealthChecker
	startTime   time.Time
	version     string
	environment string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store HealthChecker, version, environment string) *HealthHandler {
	return &HealthHandler{
		store:       store,
		startTime:   time.Now(),
		version:     version,
		environment: environment,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status      string                         `json:"status"`
	Timestamp   string                         `json:"timestamp"`
	Version     string                         `json:"version,omitempty"`
	Environment string                         `json:"environment,omitempty"`
	Uptime      string                         `json:"uptime,omitempty"`
	Services    map[string]domain.HealthStatus `json:"services,omitempty"`
	Checks      map[string]string              `json:"checks,omitempty"`
}

func (h *HealthHandler) probe(c *gin.Context, timeout time.Duration) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()
	return h.store.HealthCheck(ctx)
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	db := h.probe(c, 5*time.Second)

	checks := make(map[string]string)
	if db.Healthy() {
		checks["database"] = domain.HealthHealthy
	} else {
		checks["database"] = "unhealthy: " + db.Detail
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status, code := domain.HealthHealthy, http.StatusOK
	if !db.Healthy() {
		status, code = domain.HealthUnhealthy, http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health reports overall status with the database as its only dependency
func (h *HealthHandler) Health(c *gin.Context) {
	db := h.probe(c, 3*time.Second)

	resp := HealthResponse{
		Status:      domain.HealthHealthy,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     h.version,
		Environment: h.environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Services:    map[string]domain.HealthStatus{"database": db},
	}
	if !db.Healthy() {
		resp.Status = domain.HealthUnhealthy
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Database returns the raw database probe
func (h *HealthHandler) Database(c *gin.Context) {
	db := h.probe(c, 3*time.Second)
	if !db.Healthy() {
		c.JSON(http.StatusServiceUnavailable, db)
		return
	}
	c.JSON(http.StatusOK, db)
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}

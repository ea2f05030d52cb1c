package domain

import "time"

const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// HealthStatus is the result of a database round trip.
type HealthStatus struct {
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (h HealthStatus) Healthy() bool {
	return h.Status == HealthHealthy
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"mg_dashboard/internal/domain"
	"mg_dashboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskStore is what the handlers need from the task repository
type TaskStore interface {
	ListFiltered(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Create(ctx context.Context, n domain.NewTask) (*domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	HealthCheck(ctx context.Context) domain.HealthStatus
}

type Handler struct {
	Tasks TaskStore
}

func NewHandler(tasks TaskStore) *Handler {
	return &Handler{Tasks: tasks}
}

var errTaskNotFound = gin.H{"error": "Task not found"}

// taskID parses the :id path param. A malformed id cannot name a stored
// task, so it is reported the same way as an unknown one.
func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errTaskNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// fail maps a store error to a response. Validation messages go to the
// client verbatim; anything else is logged and replaced by publicMsg.
func fail(c *gin.Context, err error, publicMsg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	logger.WithContext(c.Request.Context()).Error(publicMsg, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": publicMsg})
}

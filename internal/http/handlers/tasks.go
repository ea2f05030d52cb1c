package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"mg_dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       *string             `json:"title"`
	Text        *string             `json:"text"` // dashboard clients send text
	Description *string             `json:"description"`
	Completed   *bool               `json:"completed"`
	Status      *domain.TaskStatus  `json:"status"`
	TaskType    *domain.TaskType    `json:"task_type"`
	Type        *domain.TaskType    `json:"type"`
	UserID      *string             `json:"user_id"`
	DueDate     domain.DueDatePatch `json:"due_date"`
}

func (r createTaskRequest) toNewTask() domain.NewTask {
	n := domain.NewTask{
		Completed: r.Completed,
		Status:    r.Status,
		TaskType:  r.TaskType,
		DueDate:   r.DueDate.Value,
	}
	switch {
	case r.Title != nil:
		n.Title = *r.Title
	case r.Text != nil:
		n.Title = *r.Text
	}
	if r.Description != nil {
		n.Description = *r.Description
	}
	if n.TaskType == nil {
		n.TaskType = r.Type
	}
	if r.UserID != nil {
		n.Tenant = domain.Tenant{UserID: *r.UserID}
	}
	return n
}

type updateTaskRequest struct {
	Title       *string             `json:"title"`
	Text        *string             `json:"text"`
	Description *string             `json:"description"`
	Completed   *bool               `json:"completed"`
	Status      *domain.TaskStatus  `json:"status"`
	TaskType    *domain.TaskType    `json:"task_type"`
	Type        *domain.TaskType    `json:"type"`
	DueDate     domain.DueDatePatch `json:"due_date"`
}

func (r updateTaskRequest) toPatch() domain.TaskPatch {
	p := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Status:      r.Status,
		TaskType:    r.TaskType,
		DueDate:     r.DueDate,
	}
	if p.Title == nil {
		p.Title = r.Text
	}
	if p.TaskType == nil {
		p.TaskType = r.Type
	}
	return p
}

// bindBody decodes the JSON body, answering 400 itself on failure.
// An empty body decodes as {}.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return false
	}
	return true
}

// ListTasks returns all tasks, optionally narrowed by ?completed, ?user_id and ?task_type
func (h *Handler) ListTasks(c *gin.Context) {
	var f domain.TaskFilter

	if v, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be true or false"})
			return
		}
		f.Completed = &completed
	}
	if v := strings.TrimSpace(c.Query("user_id")); v != "" {
		f.UserID = &v
	}
	if v := strings.TrimSpace(c.Query("task_type")); v != "" {
		tt := domain.TaskType(v)
		if !tt.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_type: " + v})
			return
		}
		f.TaskType = &tt
	}

	tasks, err := h.Tasks.ListFiltered(c.Request.Context(), f)
	if err != nil {
		fail(c, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to fetch task")
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, errTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if !bindBody(c, &req) {
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), req.toNewTask())
	if err != nil {
		fail(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update; fields missing from the body are kept
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !bindBody(c, &req) {
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), id, req.toPatch())
	if err != nil {
		fail(c, err, "Failed to update task")
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, errTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to delete task")
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, errTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "task": task})
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Toggle(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to toggle task")
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, errTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

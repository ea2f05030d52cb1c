// Package repotest provides an in-memory task store for handler and router
// tests. It applies the same normalization and status rules as the
// Postgres repository.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"mg_dashboard/internal/domain"
	"mg_dashboard/internal/repository"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
	now   func() time.Time

	// Err, when set, is returned by every operation
	Err error
	// Health is returned by HealthCheck; zero value means healthy
	Health domain.HealthStatus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[uuid.UUID]domain.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Len reports the number of stored tasks
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *MemoryStore) ListFiltered(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.UserID != nil && t.UserID != *f.UserID {
			continue
		}
		if f.TaskType != nil && t.TaskType != *f.TaskType {
			continue
		}
		t := t
		res = append(res, &t)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID.String() < res[j].ID.String()
	})
	return res, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id), nil
}

func (s *MemoryStore) get(id uuid.UUID) *domain.Task {
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	return &t
}

func (s *MemoryStore) Create(_ context.Context, n domain.NewTask) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	n, err := n.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := domain.Task{
		ID:          uuid.New(),
		Title:       n.Title,
		Description: n.Description,
		Status:      repository.StatusForCreate(n.Status, n.Completed),
		TaskType:    *n.TaskType,
		UserID:      n.Tenant.UserID,
		DueDate:     n.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.Completed = repository.CompletedFromStatus(t.Status)
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	if p.Empty() {
		return &t, nil
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.TaskType != nil {
		t.TaskType = *p.TaskType
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	t.Status = repository.PatchedStatus(t.Status, p.Status, p.Completed)
	t.Completed = repository.CompletedFromStatus(t.Status)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return &t, nil
}

func (s *MemoryStore) Toggle(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	t.Status = repository.ToggledStatus(t.Status)
	t.Completed = repository.CompletedFromStatus(t.Status)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return &t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.get(id)
	delete(s.tasks, id)
	return t, nil
}

func (s *MemoryStore) HealthCheck(_ context.Context) domain.HealthStatus {
	if s.Health.Status != "" {
		return s.Health
	}
	return domain.HealthStatus{Status: domain.HealthHealthy, Timestamp: s.now()}
}

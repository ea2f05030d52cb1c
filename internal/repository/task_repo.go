package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mg_dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultAcquireTimeout = 2 * time.Second
	defaultQueryTimeout   = 10 * time.Second
)

const taskColumns = `id, title, description, status, task_type, user_id, due_date, created_at, updated_at`

// TaskRepository is the task store. Absence is reported as (nil, nil).
type TaskRepository struct {
	db             *pgxpool.Pool
	acquireTimeout time.Duration
	queryTimeout   time.Duration
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return NewTaskRepositoryWithTimeouts(db, defaultAcquireTimeout, defaultQueryTimeout)
}

// NewTaskRepositoryWithTimeouts bounds the wait for a pooled connection and
// the run time of each statement once a connection is held.
func NewTaskRepositoryWithTimeouts(db *pgxpool.Pool, acquire, query time.Duration) *TaskRepository {
	if acquire <= 0 {
		acquire = defaultAcquireTimeout
	}
	if query <= 0 {
		query = defaultQueryTimeout
	}
	return &TaskRepository{db: db, acquireTimeout: acquire, queryTimeout: query}
}

// CompletedFromStatus is the only place status is read back as a boolean.
func CompletedFromStatus(s domain.TaskStatus) bool {
	return s == domain.TaskStatusCompleted
}

// StatusForCreate picks the stored status for a new task.
func StatusForCreate(status *domain.TaskStatus, completed *bool) domain.TaskStatus {
	if status != nil {
		return *status
	}
	if completed != nil && *completed {
		return domain.TaskStatusCompleted
	}
	return domain.TaskStatusPending
}

// ToggledStatus flips completion. Any non-completed status becomes completed.
func ToggledStatus(s domain.TaskStatus) domain.TaskStatus {
	if CompletedFromStatus(s) {
		return domain.TaskStatusPending
	}
	return domain.TaskStatusCompleted
}

// PatchedStatus is the status an update leaves behind. It mirrors the CASE
// expression in Update for callers that apply patches outside SQL.
func PatchedStatus(current domain.TaskStatus, status *domain.TaskStatus, completed *bool) domain.TaskStatus {
	switch {
	case status != nil:
		return *status
	case completed == nil:
		return current
	case *completed:
		return domain.TaskStatusCompleted
	case CompletedFromStatus(current):
		return domain.TaskStatusPending
	}
	return current
}

// withConn acquires a pooled connection and runs fn on it. The statement
// context ignores the caller's cancellation so an in-flight write finishes
// even if the client goes away.
func (r *TaskRepository) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	start := time.Now()
	defer func() {
		QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	acquireCtx, cancel := context.WithTimeout(ctx, r.acquireTimeout)
	conn, err := r.db.Acquire(acquireCtx)
	cancel()
	if err != nil {
		QueryErrors.WithLabelValues(op).Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", op, domain.ErrPoolTimeout)
		}
		return fmt.Errorf("%s: acquire connection: %w", op, err)
	}
	defer conn.Release()

	queryCtx, cancelQuery := context.WithTimeout(context.WithoutCancel(ctx), r.queryTimeout)
	defer cancelQuery()

	if err := fn(queryCtx, conn); err != nil {
		QueryErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t        domain.Task
		id       pgtype.UUID
		status   string
		taskType string
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &status, &taskType, &t.UserID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.Status = domain.TaskStatus(status)
	t.Completed = CompletedFromStatus(t.Status)
	t.TaskType = domain.TaskType(taskType)
	return &t, nil
}

// scanOne maps pgx.ErrNoRows to absence
func scanOne(row pgx.Row) (*domain.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// List returns every task, newest first
func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	return r.ListFiltered(ctx, domain.TaskFilter{})
}

// ListByStatus returns completed (or not completed) tasks, newest first
func (r *TaskRepository) ListByStatus(ctx context.Context, completed bool) ([]*domain.Task, error) {
	return r.ListFiltered(ctx, domain.TaskFilter{Completed: &completed})
}

// ListFiltered returns tasks matching every non-nil filter field, newest first
func (r *TaskRepository) ListFiltered(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE TRUE`
	args := []any{}

	if f.Completed != nil {
		args = append(args, string(domain.TaskStatusCompleted))
		if *f.Completed {
			query += " AND status = $" + strconv.Itoa(len(args))
		} else {
			query += " AND status <> $" + strconv.Itoa(len(args))
		}
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		query += " AND user_id = $" + strconv.Itoa(len(args))
	}
	if f.TaskType != nil {
		args = append(args, string(*f.TaskType))
		query += " AND task_type = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY created_at DESC, id"

	res := make([]*domain.Task, 0)
	err := r.withConn(ctx, "list", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			res = append(res, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID returns the task or nil when it does not exist
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task *domain.Task
	err := r.withConn(ctx, "get", func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		task, err = scanOne(conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, pgUUID(id)))
		return err
	})
	return task, err
}

// Create validates n and inserts it. The database assigns id and timestamps.
func (r *TaskRepository) Create(ctx context.Context, n domain.NewTask) (*domain.Task, error) {
	n, err := n.Normalize()
	if err != nil {
		return nil, err
	}

	var task *domain.Task
	err = r.withConn(ctx, "create", func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		task, err = scanTask(conn.QueryRow(ctx, `
			INSERT INTO tasks (title, description, status, task_type, user_id, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+taskColumns,
			n.Title,
			n.Description,
			string(StatusForCreate(n.Status, n.Completed)),
			string(*n.TaskType),
			n.Tenant.UserID,
			n.DueDate,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the fields present in p in one statement. Omitted fields
// keep their stored values. Returns nil when the task does not exist.
//
// Completion rules: an explicit status wins; completed=true stores
// 'completed'; completed=false demotes 'completed' to 'pending' and leaves
// any other status alone.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, p domain.TaskPatch) (*domain.Task, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return r.GetByID(ctx, id)
	}

	var status, taskType *string
	if p.Status != nil {
		s := string(*p.Status)
		status = &s
	}
	if p.TaskType != nil {
		tt := string(*p.TaskType)
		taskType = &tt
	}

	var task *domain.Task
	err = r.withConn(ctx, "update", func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		task, err = scanOne(conn.QueryRow(ctx, `
			UPDATE tasks SET
				title       = COALESCE($2::text, title),
				description = COALESCE($3::text, description),
				status      = CASE
					WHEN $4::text IS NOT NULL THEN $4::text
					WHEN $5::boolean IS NULL THEN status
					WHEN $5::boolean THEN 'completed'
					WHEN status = 'completed' THEN 'pending'
					ELSE status
				END,
				task_type   = COALESCE($6::text, task_type),
				due_date    = CASE WHEN $7::boolean THEN $8::timestamptz ELSE due_date END,
				updated_at  = NOW()
			WHERE id = $1
			RETURNING `+taskColumns,
			pgUUID(id),
			p.Title,
			p.Description,
			status,
			p.Completed,
			taskType,
			p.DueDate.Set,
			p.DueDate.Value,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips completion under a row lock so concurrent toggles serialize.
// Returns nil when the task does not exist.
func (r *TaskRepository) Toggle(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task *domain.Task
	err := r.withConn(ctx, "toggle", func(ctx context.Context, conn *pgxpool.Conn) error {
		tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		var current string
		err = tx.QueryRow(ctx, `SELECT status FROM tasks WHERE id = $1 FOR UPDATE`, pgUUID(id)).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}

		next := ToggledStatus(domain.TaskStatus(current))
		task, err = scanTask(tx.QueryRow(ctx, `
			UPDATE tasks SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+taskColumns, pgUUID(id), string(next)))
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task and returns it, or nil when it did not exist
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task *domain.Task
	err := r.withConn(ctx, "delete", func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		task, err = scanOne(conn.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, pgUUID(id)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// HealthCheck does a trivial round trip. Failures are reported in the
// result, never as an error.
func (r *TaskRepository) HealthCheck(ctx context.Context) domain.HealthStatus {
	var now time.Time
	err := r.withConn(ctx, "health", func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `SELECT NOW()`).Scan(&now)
	})
	if err != nil {
		return domain.HealthStatus{
			Status:    domain.HealthUnhealthy,
			Detail:    err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}
	return domain.HealthStatus{Status: domain.HealthHealthy, Timestamp: now.UTC()}
}

// Package task implements per-user task storage: CRUD plus atomic
// reordering of the user-visible position sequence.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/sqlc"
)

// MaxListLimit caps a single page of the task list.
const MaxListLimit = 500

// Querier is the subset of generated queries the store needs.
type Querier interface {
	ListTasks(ctx context.Context, arg sqlc.ListTasksParams) ([]sqlc.Task, error)
	CountTasks(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetTask(ctx context.Context, arg sqlc.GetTaskParams) (sqlc.Task, error)
	UpdateTask(ctx context.Context, arg sqlc.UpdateTaskParams) (sqlc.Task, error)
	DeleteTask(ctx context.Context, arg sqlc.DeleteTaskParams) (int64, error)
}

// Store persists tasks in PostgreSQL. Reads go through the querier;
// Create and Reorder open their own transactions on the pool so that
// position assignment is serialized per user.
type Store struct {
	querier Querier
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// New creates a task store. The pool may be nil only in tests that
// never call Create or Reorder.
func New(querier Querier, pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{querier: querier, pool: pool, logger: logger}
}

// List returns one page of the user's tasks ordered by position,
// along with the user's total task count.
func (s *Store) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Task, int64, error) {
	if limit < 1 || limit > MaxListLimit {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.querier.ListTasks(ctx, sqlc.ListTasksParams{
		UserID:       pgUUID(userID),
		ResultLimit:  int32(limit),
		ResultOffset: int32(offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	total, err := s.querier.CountTasks(ctx, pgUUID(userID))
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, fromRow(row))
	}
	return tasks, total, nil
}

// Get returns a single task owned by the user.
func (s *Store) Get(ctx context.Context, userID, taskID uuid.UUID) (Task, error) {
	row, err := s.querier.GetTask(ctx, sqlc.GetTaskParams{
		ID:     pgUUID(taskID),
		UserID: pgUUID(userID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return fromRow(row), nil
}

// Create inserts a new task at the end of the user's list. The position
// is assigned inside a transaction that locks the user row, so two
// concurrent creates never race for the same slot.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	priority := params.Priority
	if priority == "" {
		priority = PriorityNone
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := sqlc.New(tx)

	if _, err := q.LockUser(ctx, pgUUID(userID)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("lock user: %w", err)
	}

	maxPos, err := q.GetMaxOrderPosition(ctx, pgUUID(userID))
	if err != nil {
		return Task{}, fmt.Errorf("max order position: %w", err)
	}

	row, err := q.InsertTask(ctx, sqlc.InsertTaskParams{
		UserID:        pgUUID(userID),
		Title:         title,
		Description:   params.Description,
		Completed:     false,
		OrderPosition: maxPos + 1,
		DueDate:       pgTimestamptz(params.DueDate),
		Priority:      string(priority),
		Tags:          tags,
	})
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Task{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("task created", "task_id", row.ID, "position", row.OrderPosition)
	return fromRow(row), nil
}

// Update applies a partial update. Nil fields in params keep their
// current value; completed_at is maintained by a database trigger.
func (s *Store) Update(ctx context.Context, userID, taskID uuid.UUID, params UpdateParams) (Task, error) {
	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		if trimmed == "" {
			return Task{}, ErrEmptyTitle
		}
		params.Title = &trimmed
	}
	var priority *string
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, *params.Priority)
		}
		p := string(*params.Priority)
		priority = &p
	}

	row, err := s.querier.UpdateTask(ctx, sqlc.UpdateTaskParams{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
		DueDate:     pgTimestamptz(params.DueDate),
		Priority:    priority,
		Tags:        params.Tags,
		ID:          pgUUID(taskID),
		UserID:      pgUUID(userID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return fromRow(row), nil
}

// Delete removes a task owned by the user.
func (s *Store) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	affected, err := s.querier.DeleteTask(ctx, sqlc.DeleteTaskParams{
		ID:     pgUUID(taskID),
		UserID: pgUUID(userID),
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder moves the given tasks to the front of the user's list: the
// listed tasks take positions 1..N in the order given, and any tasks
// not listed follow at N+1.. keeping their previous relative order.
// The whole renumbering happens in one transaction; any unknown ID
// rolls everything back. The unique constraint on
// (user_id, order_position) is deferred, so swapping two tasks does
// not trip it mid-transaction.
func (s *Store) Reorder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return ErrEmptyReorder
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := sqlc.New(tx)

	if _, err := q.LockUser(ctx, pgUUID(userID)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	current, err := q.ListTaskIDs(ctx, pgUUID(userID))
	if err != nil {
		return fmt.Errorf("list task ids: %w", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(current))
	for _, row := range current {
		owned[fromPgUUID(row)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}

	// Listed tasks first, then everything else in current order.
	sequence := make([]uuid.UUID, 0, len(current))
	sequence = append(sequence, ids...)
	for _, row := range current {
		id := fromPgUUID(row)
		if _, ok := seen[id]; !ok {
			sequence = append(sequence, id)
		}
	}

	for i, id := range sequence {
		_, err := q.UpdateTaskPosition(ctx, sqlc.UpdateTaskPositionParams{
			OrderPosition: int32(i + 1),
			ID:            pgUUID(id),
			UserID:        pgUUID(userID),
		})
		if err != nil {
			return fmt.Errorf("update position: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("tasks reordered", "user_id", userID, "count", len(ids))
	return nil
}

package repository

import (
	"context"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

// TaskRepository serves task reads through the query cache and drops the
// affected entries on writes.
type TaskRepository struct {
	source  TaskSource
	queries *cache.Service
	logger  *zap.Logger
}

// NewTaskRepository builds a cached task repository over source.
func NewTaskRepository(source TaskSource, queries *cache.Service, logger *zap.Logger) *TaskRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskRepository{source: source, queries: queries, logger: logger}
}

// List returns one page of tasks matching the query.
func (r *TaskRepository) List(ctx context.Context, query TaskQuery, refresh bool) ([]domain.Task, bool, error) {
	return read(ctx, r.queries, query.CacheKey(), taskTTL, true, refresh,
		func(ctx context.Context) ([]domain.Task, error) {
			return r.source.ListTasks(ctx, query)
		})
}

// Get returns one task, or nil when the id is unknown upstream.
func (r *TaskRepository) Get(ctx context.Context, id string, refresh bool) (*domain.Task, bool, error) {
	return read(ctx, r.queries, taskKey(id), taskTTL, true, refresh,
		func(ctx context.Context) (*domain.Task, error) {
			return r.source.GetTask(ctx, id)
		})
}

// Create stores a new task upstream and drops the list entries the new
// record can appear in.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	created, err := r.source.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		listPatterns(taskKeyspace, created.CompanyID)...)
	return created, nil
}

// UpdateStatus moves a task to a new status upstream and drops the entries
// that still show the old one.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	updated, err := r.source.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	patterns := append(listPatterns(taskKeyspace, updated.CompanyID), taskKey(id))
	invalidate(ctx, r.queries, r.logger, patterns...)
	return updated, nil
}

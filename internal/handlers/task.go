package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	"hdfhr-backend/pkg/api"
	apperrors "hdfhr-backend/pkg/errors"
)

// TaskStore is what the task endpoints need from the repository layer.
type TaskStore interface {
	List(ctx context.Context, query repository.TaskQuery, refresh bool) ([]domain.Task, bool, error)
	Get(ctx context.Context, id string, refresh bool) (*domain.Task, bool, error)
	Create(ctx context.Context, task domain.Task) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
}

// TaskHandler serves the /api/tasks endpoints.
type TaskHandler struct {
	tasks  TaskStore
	logger *zap.Logger
}

// NewTaskHandler builds a task handler.
func NewTaskHandler(tasks TaskStore, logger *zap.Logger) *TaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskHandler{tasks: tasks, logger: logger}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	query := repository.TaskQuery{
		CompanyID:  r.URL.Query().Get("companyId"),
		Status:     r.URL.Query().Get("status"),
		AssignedTo: r.URL.Query().Get("assignedTo"),
		Page:       parsePage(r),
	}

	tasks, fromCache, err := h.tasks.List(r.Context(), query, parseRefresh(r))
	writeList(w, tasks, query.Page, fromCache, err)
}

// Get handles GET /api/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")

	task, fromCache, err := h.tasks.Get(r.Context(), id, parseRefresh(r))
	writeDetail(w, "task", task, fromCache, err)
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			api.FromError(w, apperrors.NewValidation("deadline must be an RFC3339 timestamp"))
			return
		}
		deadline = &parsed
	}

	created, err := h.tasks.Create(r.Context(), domain.Task{
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatusOpen,
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		Deadline:    deadline,
	})
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}

// UpdateStatus handles PATCH /api/tasks/{taskID}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")

	var req api.UpdateTaskStatusRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	updated, err := h.tasks.UpdateStatus(r.Context(), id, domain.TaskStatus(req.Status))
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusOK, updated)
}

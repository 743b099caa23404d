package datasource

import (
	"context"
	"time"

	"github.com/supabase-community/postgrest-go"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	apperrors "hdfhr-backend/pkg/errors"
)

const tasksTable = "tasks"

// ListTasks pages through tasks matching the query, newest first.
func (c *Client) ListTasks(ctx context.Context, query repository.TaskQuery) ([]domain.Task, error) {
	from, to := query.Page.Bounds()
	data, err := c.call(ctx, "tasks.list", func() ([]byte, error) {
		builder := c.sb.From(tasksTable).Select("*", "", false)
		if query.CompanyID != "" {
			builder = builder.Eq("company_id", query.CompanyID)
		}
		if query.Status != "" {
			builder = builder.Eq("status", query.Status)
		}
		if query.AssignedTo != "" {
			builder = builder.Eq("assigned_to", query.AssignedTo)
		}
		data, _, err := builder.
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			Range(from, to, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Task](data, "task list")
}

// GetTask returns one task, or nil when the id matches no row.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	data, err := c.call(ctx, "tasks.get", func() ([]byte, error) {
		data, _, err := c.sb.From(tasksTable).
			Select("*", "", false).
			Eq("id", id).
			Limit(1, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Task](data, "task")
}

// CreateTask inserts a task and returns the stored row. New tasks default
// to open status and medium priority.
func (c *Client) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	status := task.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}
	priority := task.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	record := map[string]any{
		"company_id": task.CompanyID,
		"title":      task.Title,
		"status":     string(status),
		"priority":   string(priority),
	}
	if task.Description != "" {
		record["description"] = task.Description
	}
	if task.AssignedTo != "" {
		record["assigned_to"] = task.AssignedTo
	}
	if task.Deadline != nil {
		record["deadline"] = task.Deadline.Format(time.RFC3339)
	}

	data, err := c.call(ctx, "tasks.create", func() ([]byte, error) {
		data, _, err := c.sb.From(tasksTable).
			Insert(record, false, "", "representation", "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	created, err := decodeOne[domain.Task](data, "task")
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.NewExternal("upstream returned no task row", nil)
	}
	return created, nil
}

// UpdateTaskStatus moves a task to a new status and returns the stored row.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	data, err := c.call(ctx, "tasks.update_status", func() ([]byte, error) {
		data, _, err := c.sb.From(tasksTable).
			Update(map[string]any{"status": string(status)}, "representation", "").
			Eq("id", id).
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	updated, err := decodeOne[domain.Task](data, "task")
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("task not found: " + id)
	}
	return updated, nil
}

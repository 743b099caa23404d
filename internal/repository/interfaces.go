package repository

import (
	"context"

	"hdfhr-backend/internal/domain"
)

// CompanySource is the upstream API for company records.
type CompanySource interface {
	ListCompanies(ctx context.Context, query CompanyQuery) ([]domain.Company, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error)
	UpdateCompany(ctx context.Context, id string, fields map[string]any) (*domain.Company, error)
}

// EmployeeSource is the upstream API for employee records.
type EmployeeSource interface {
	ListEmployees(ctx context.Context, query EmployeeQuery) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*domain.Employee, error)
}

// TaskSource is the upstream API for task records.
type TaskSource interface {
	ListTasks(ctx context.Context, query TaskQuery) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
}

// ReceiptSource is the upstream API for receipt records.
type ReceiptSource interface {
	ListReceipts(ctx context.Context, query ReceiptQuery) ([]domain.Receipt, error)
	GetReceipt(ctx context.Context, id string) (*domain.Receipt, error)
	CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}

// ActivitySource is the upstream API for activity log records.
type ActivitySource interface {
	ListActivity(ctx context.Context, query ActivityQuery) ([]domain.ActivityLog, error)
	LogActivity(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error)
}

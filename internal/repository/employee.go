package repository

import (
	"context"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

// EmployeeRepository serves employee reads through the query cache and drops
// the affected entries on writes.
type EmployeeRepository struct {
	source  EmployeeSource
	queries *cache.Service
	logger  *zap.Logger
}

// NewEmployeeRepository builds a cached employee repository over source.
func NewEmployeeRepository(source EmployeeSource, queries *cache.Service, logger *zap.Logger) *EmployeeRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeRepository{source: source, queries: queries, logger: logger}
}

// List returns one page of employees, optionally scoped to a company.
func (r *EmployeeRepository) List(ctx context.Context, query EmployeeQuery, refresh bool) ([]domain.Employee, bool, error) {
	return read(ctx, r.queries, query.CacheKey(), employeeTTL, true, refresh,
		func(ctx context.Context) ([]domain.Employee, error) {
			return r.source.ListEmployees(ctx, query)
		})
}

// Get returns one employee, or nil when the id is unknown upstream.
func (r *EmployeeRepository) Get(ctx context.Context, id string, refresh bool) (*domain.Employee, bool, error) {
	return read(ctx, r.queries, employeeKey(id), employeeTTL, true, refresh,
		func(ctx context.Context) (*domain.Employee, error) {
			return r.source.GetEmployee(ctx, id)
		})
}

// Create stores a new employee upstream and drops the list entries the new
// record can appear in.
func (r *EmployeeRepository) Create(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	created, err := r.source.CreateEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		listPatterns(employeeKeyspace, created.CompanyID)...)
	return created, nil
}

// Update patches an employee upstream. The field set is open-ended, so every
// employee list goes, along with the record's detail entry.
func (r *EmployeeRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Employee, error) {
	updated, err := r.source.UpdateEmployee(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		cache.Key(employeeKeyspace, "list")+cache.Wildcard,
		employeeKey(id))
	return updated, nil
}

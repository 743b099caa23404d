package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	"hdfhr-backend/pkg/api"
	apperrors "hdfhr-backend/pkg/errors"
)

// EmployeeStore is what the employee endpoints need from the repository layer.
type EmployeeStore interface {
	List(ctx context.Context, query repository.EmployeeQuery, refresh bool) ([]domain.Employee, bool, error)
	Get(ctx context.Context, id string, refresh bool) (*domain.Employee, bool, error)
	Create(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Employee, error)
}

// EmployeeHandler serves the /api/employees endpoints.
type EmployeeHandler struct {
	employees EmployeeStore
	logger    *zap.Logger
}

// NewEmployeeHandler builds an employee handler.
func NewEmployeeHandler(employees EmployeeStore, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{employees: employees, logger: logger}
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := repository.EmployeeQuery{
		CompanyID:  r.URL.Query().Get("companyId"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Page:       parsePage(r),
	}

	employees, fromCache, err := h.employees.List(r.Context(), query, parseRefresh(r))
	writeList(w, employees, query.Page, fromCache, err)
}

// Get handles GET /api/employees/{employeeID}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")

	employee, fromCache, err := h.employees.Get(r.Context(), id, parseRefresh(r))
	writeDetail(w, "employee", employee, fromCache, err)
}

// Create handles POST /api/employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEmployeeRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	created, err := h.employees.Create(r.Context(), domain.Employee{
		CompanyID:    req.CompanyID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		JobTitle:     req.JobTitle,
		Role:         domain.Role(req.Role),
		ActiveStatus: true,
	})
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}

// Update handles PATCH /api/employees/{employeeID}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")

	var req api.UpdateEmployeeRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	fields := map[string]any{}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.PhoneNumber != "" {
		fields["phone_number"] = req.PhoneNumber
	}
	if req.JobTitle != "" {
		fields["job_title"] = req.JobTitle
	}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	if req.ActiveStatus != nil {
		fields["active_status"] = *req.ActiveStatus
	}
	if len(fields) == 0 {
		api.FromError(w, apperrors.NewValidation("no fields to update"))
		return
	}

	updated, err := h.employees.Update(r.Context(), id, fields)
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusOK, updated)
}

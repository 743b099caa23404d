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

// CompanyStore is what the company endpoints need from the repository layer.
type CompanyStore interface {
	List(ctx context.Context, query repository.CompanyQuery, refresh bool) ([]domain.Company, bool, error)
	Get(ctx context.Context, id string, refresh bool) (*domain.Company, bool, error)
	Create(ctx context.Context, company domain.Company) (*domain.Company, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Company, error)
}

// CompanyHandler serves the /api/companies endpoints.
type CompanyHandler struct {
	companies CompanyStore
	logger    *zap.Logger
}

// NewCompanyHandler builds a company handler.
func NewCompanyHandler(companies CompanyStore, logger *zap.Logger) *CompanyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyHandler{companies: companies, logger: logger}
}

// List handles GET /api/companies.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	query := repository.CompanyQuery{
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Page:       parsePage(r),
	}

	companies, fromCache, err := h.companies.List(r.Context(), query, parseRefresh(r))
	writeList(w, companies, query.Page, fromCache, err)
}

// Get handles GET /api/companies/{companyID}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "companyID")

	company, fromCache, err := h.companies.Get(r.Context(), id, parseRefresh(r))
	writeDetail(w, "company", company, fromCache, err)
}

// Create handles POST /api/companies.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCompanyRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	created, err := h.companies.Create(r.Context(), domain.Company{
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		IndustryType:       req.IndustryType,
		ContactEmail:       req.ContactEmail,
		ContactNumber:      req.ContactNumber,
		VATNumber:          req.VATNumber,
		Active:             true,
	})
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}

// Update handles PATCH /api/companies/{companyID}.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "companyID")

	var req api.UpdateCompanyRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	fields := map[string]any{}
	if req.CompanyName != "" {
		fields["company_name"] = req.CompanyName
	}
	if req.IndustryType != "" {
		fields["industry_type"] = req.IndustryType
	}
	if req.ContactEmail != "" {
		fields["contact_email"] = req.ContactEmail
	}
	if req.ContactNumber != "" {
		fields["contact_number"] = req.ContactNumber
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		api.FromError(w, apperrors.NewValidation("no fields to update"))
		return
	}

	updated, err := h.companies.Update(r.Context(), id, fields)
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusOK, updated)
}

package repository

import (
	"context"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

// CompanyRepository serves company reads through the query cache and drops
// the affected entries on writes.
type CompanyRepository struct {
	source  CompanySource
	queries *cache.Service
	logger  *zap.Logger
}

// NewCompanyRepository builds a cached company repository over source.
func NewCompanyRepository(source CompanySource, queries *cache.Service, logger *zap.Logger) *CompanyRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyRepository{source: source, queries: queries, logger: logger}
}

// List returns one page of companies.
func (r *CompanyRepository) List(ctx context.Context, query CompanyQuery, refresh bool) ([]domain.Company, bool, error) {
	return read(ctx, r.queries, query.CacheKey(), companyTTL, true, refresh,
		func(ctx context.Context) ([]domain.Company, error) {
			return r.source.ListCompanies(ctx, query)
		})
}

// Get returns one company, or nil when the id is unknown upstream.
func (r *CompanyRepository) Get(ctx context.Context, id string, refresh bool) (*domain.Company, bool, error) {
	return read(ctx, r.queries, companyKey(id), companyTTL, true, refresh,
		func(ctx context.Context) (*domain.Company, error) {
			return r.source.GetCompany(ctx, id)
		})
}

// Create stores a new company upstream and drops the cached company lists.
func (r *CompanyRepository) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	created, err := r.source.CreateCompany(ctx, company)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		cache.Key(companyKeyspace, "list")+cache.Wildcard)
	return created, nil
}

// Update patches a company upstream and drops every entry that could still
// show the old record.
func (r *CompanyRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Company, error) {
	updated, err := r.source.UpdateCompany(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		cache.Key(companyKeyspace, "list")+cache.Wildcard,
		companyKey(id))
	return updated, nil
}

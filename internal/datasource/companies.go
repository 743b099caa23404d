package datasource

import (
	"context"

	"github.com/supabase-community/postgrest-go"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	apperrors "hdfhr-backend/pkg/errors"
)

const companiesTable = "company"

// ListCompanies pages through companies, newest first.
func (c *Client) ListCompanies(ctx context.Context, query repository.CompanyQuery) ([]domain.Company, error) {
	from, to := query.Page.Bounds()
	data, err := c.call(ctx, "companies.list", func() ([]byte, error) {
		builder := c.sb.From(companiesTable).Select("*", "", false)
		if query.ActiveOnly {
			builder = builder.Eq("active", "true")
		}
		if query.Search != "" {
			builder = builder.Ilike("company_name", "%"+query.Search+"%")
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
	return decodeList[domain.Company](data, "company list")
}

// GetCompany returns one company, or nil when the id matches no row.
func (c *Client) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	data, err := c.call(ctx, "companies.get", func() ([]byte, error) {
		data, _, err := c.sb.From(companiesTable).
			Select("*", "", false).
			Eq("id", id).
			Limit(1, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Company](data, "company")
}

// CreateCompany inserts a company and returns the stored row.
func (c *Client) CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	record := map[string]any{
		"company_name":        company.CompanyName,
		"registration_number": company.RegistrationNumber,
		"industry_type":       company.IndustryType,
		"contact_email":       company.ContactEmail,
		"active":              company.Active,
	}
	if company.ContactNumber != "" {
		record["contact_number"] = company.ContactNumber
	}
	if company.VATNumber != "" {
		record["vat_number"] = company.VATNumber
	}

	data, err := c.call(ctx, "companies.create", func() ([]byte, error) {
		data, _, err := c.sb.From(companiesTable).
			Insert(record, false, "", "representation", "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	created, err := decodeOne[domain.Company](data, "company")
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.NewExternal("upstream returned no company row", nil)
	}
	return created, nil
}

// UpdateCompany patches the given columns and returns the stored row.
func (c *Client) UpdateCompany(ctx context.Context, id string, fields map[string]any) (*domain.Company, error) {
	data, err := c.call(ctx, "companies.update", func() ([]byte, error) {
		data, _, err := c.sb.From(companiesTable).
			Update(fields, "representation", "").
			Eq("id", id).
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	updated, err := decodeOne[domain.Company](data, "company")
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("company not found: " + id)
	}
	return updated, nil
}

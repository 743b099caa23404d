package datasource

import (
	"context"
	"time"

	"github.com/supabase-community/postgrest-go"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	apperrors "hdfhr-backend/pkg/errors"
)

const employeesTable = "company_user"

// ListEmployees pages through employees, optionally scoped to one company.
func (c *Client) ListEmployees(ctx context.Context, query repository.EmployeeQuery) ([]domain.Employee, error) {
	from, to := query.Page.Bounds()
	data, err := c.call(ctx, "employees.list", func() ([]byte, error) {
		builder := c.sb.From(employeesTable).Select("*", "", false)
		if query.CompanyID != "" {
			builder = builder.Eq("company_id", query.CompanyID)
		}
		if query.ActiveOnly {
			builder = builder.Eq("active_status", "true")
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
	return decodeList[domain.Employee](data, "employee list")
}

// GetEmployee returns one employee, or nil when the id matches no row.
func (c *Client) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	data, err := c.call(ctx, "employees.get", func() ([]byte, error) {
		data, _, err := c.sb.From(employeesTable).
			Select("*", "", false).
			Eq("id", id).
			Limit(1, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Employee](data, "employee")
}

// CreateEmployee inserts an employee and returns the stored row.
func (c *Client) CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	record := map[string]any{
		"company_id":    employee.CompanyID,
		"first_name":    employee.FirstName,
		"last_name":     employee.LastName,
		"email":         employee.Email,
		"role":          string(employee.Role),
		"active_status": employee.ActiveStatus,
	}
	if employee.PhoneNumber != "" {
		record["phone_number"] = employee.PhoneNumber
	}
	if employee.JobTitle != "" {
		record["job_title"] = employee.JobTitle
	}
	if !employee.StartDate.IsZero() {
		record["start_date"] = employee.StartDate.Format(time.RFC3339)
	}

	data, err := c.call(ctx, "employees.create", func() ([]byte, error) {
		data, _, err := c.sb.From(employeesTable).
			Insert(record, false, "", "representation", "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	created, err := decodeOne[domain.Employee](data, "employee")
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.NewExternal("upstream returned no employee row", nil)
	}
	return created, nil
}

// UpdateEmployee patches the given columns and returns the stored row.
func (c *Client) UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*domain.Employee, error) {
	data, err := c.call(ctx, "employees.update", func() ([]byte, error) {
		data, _, err := c.sb.From(employeesTable).
			Update(fields, "representation", "").
			Eq("id", id).
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	updated, err := decodeOne[domain.Employee](data, "employee")
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("employee not found: " + id)
	}
	return updated, nil
}

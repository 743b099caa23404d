package domain

import "time"

// Role distinguishes company administrators from regular employees
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Employee represents a person employed by a company
type Employee struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	Role         Role      `json:"role"`
	ActiveStatus bool      `json:"active_status"`
	StartDate    time.Time `json:"start_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

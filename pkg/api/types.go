package api

import "encoding/json"

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListMeta describes how a list response was produced so the client can
// badge cached or stale data.
type ListMeta struct {
	Page      int  `json:"page"`
	PageSize  int  `json:"pageSize"`
	FromCache bool `json:"fromCache"`
	Stale     bool `json:"stale,omitempty"`
}

// ListResponse wraps a collection payload with cache provenance metadata.
type ListResponse struct {
	Data interface{} `json:"data"`
	Meta ListMeta    `json:"meta"`
}

// CreateCompanyRequest represents the request to register a company
type CreateCompanyRequest struct {
	CompanyName        string `json:"company_name" validate:"required,min=2,max=120"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	IndustryType       string `json:"industry_type" validate:"required"`
	ContactEmail       string `json:"contact_email" validate:"required,email"`
	ContactNumber      string `json:"contact_number,omitempty"`
	VATNumber          string `json:"vat_number,omitempty"`
}

// UpdateCompanyRequest represents the request to update a company
type UpdateCompanyRequest struct {
	CompanyName   string `json:"company_name,omitempty"`
	IndustryType  string `json:"industry_type,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactNumber string `json:"contact_number,omitempty"`
	Active        *bool  `json:"active,omitempty"`
}

// CreateEmployeeRequest represents the request to add an employee to a company
type CreateEmployeeRequest struct {
	CompanyID   string `json:"company_id" validate:"required,uuid4"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Role        string `json:"role" validate:"required,oneof=admin employee"`
}

// UpdateEmployeeRequest represents the request to update an employee
type UpdateEmployeeRequest struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
	Role         string `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
	ActiveStatus *bool  `json:"active_status,omitempty"`
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	CompanyID   string `json:"company_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	AssignedTo  string `json:"assigned_to,omitempty" validate:"omitempty,uuid4"`
	Deadline    string `json:"deadline,omitempty"`
}

// UpdateTaskStatusRequest represents the request to move a task between states
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress completed overdue"`
}

// CreateReceiptRequest represents the request to record an expense receipt
type CreateReceiptRequest struct {
	CompanyID    string  `json:"company_id" validate:"required,uuid4"`
	EmployeeID   string  `json:"employee_id,omitempty" validate:"omitempty,uuid4"`
	MerchantName string  `json:"merchant_name" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	TotalAmount  float64 `json:"total_amount" validate:"gte=0"`
	TaxAmount    float64 `json:"tax_amount" validate:"gte=0"`
	Category     string  `json:"category,omitempty"`
	ImagePath    string  `json:"image_path,omitempty"`
}

// LogActivityRequest represents the request to append an activity log entry
type LogActivityRequest struct {
	CompanyID    string          `json:"company_id,omitempty" validate:"omitempty,uuid4"`
	UserID       string          `json:"user_id" validate:"required"`
	ActivityType string          `json:"activity_type" validate:"required"`
	Description  string          `json:"description,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// InvalidateRequest asks the cache to drop an exact key or a "prefix*" pattern.
type InvalidateRequest struct {
	Key string `json:"key" validate:"required"`
}

// InvalidateResponse reports how many entries an invalidation removed.
type InvalidateResponse struct {
	Removed int `json:"removed"`
}

// CacheStatsResponse is the admin view of cache health.
type CacheStatsResponse struct {
	Hits              uint64  `json:"hits"`
	Misses            uint64  `json:"misses"`
	Errors            uint64  `json:"errors"`
	TotalRequests     uint64  `json:"totalRequests"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	HitRate           float64 `json:"hitRate"`
	Entries           int     `json:"entries"`
}

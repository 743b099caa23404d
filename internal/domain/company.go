// Package domain contains the core HR data structures, independent of the
// upstream API and cache layers.
package domain

import "time"

// Company represents an organization managed through the HR admin console
type Company struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"company_name"`
	RegistrationNumber string    `json:"registration_number"`
	IndustryType       string    `json:"industry_type"`
	ContactEmail       string    `json:"contact_email"`
	ContactNumber      string    `json:"contact_number,omitempty"`
	VATNumber          string    `json:"vat_number,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

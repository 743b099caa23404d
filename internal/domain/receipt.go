package domain

import "time"

// Receipt represents an expense receipt recorded against a company
type Receipt struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	MerchantName string    `json:"merchant_name"`
	Date         string    `json:"date"`
	TotalAmount  float64   `json:"total_amount"`
	TaxAmount    float64   `json:"tax_amount"`
	Category     string    `json:"category,omitempty"`
	ImagePath    string    `json:"image_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

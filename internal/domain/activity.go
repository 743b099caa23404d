package domain

import (
	"encoding/json"
	"time"
)

// ActivityLog represents an audit trail entry for an action taken in the app
type ActivityLog struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id,omitempty"`
	UserID       string          `json:"user_id"`
	ActivityType string          `json:"activity_type"`
	Description  string          `json:"description,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

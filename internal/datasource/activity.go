package datasource

import (
	"context"

	"github.com/supabase-community/postgrest-go"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	apperrors "hdfhr-backend/pkg/errors"
)

const activityTable = "activity_logs"

// ListActivity pages through the activity feed, newest first.
func (c *Client) ListActivity(ctx context.Context, query repository.ActivityQuery) ([]domain.ActivityLog, error) {
	from, to := query.Page.Bounds()
	data, err := c.call(ctx, "activity.list", func() ([]byte, error) {
		builder := c.sb.From(activityTable).Select("*", "", false)
		if query.CompanyID != "" {
			builder = builder.Eq("company_id", query.CompanyID)
		}
		if query.UserID != "" {
			builder = builder.Eq("user_id", query.UserID)
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
	return decodeList[domain.ActivityLog](data, "activity list")
}

// LogActivity appends an audit trail entry and returns the stored row.
func (c *Client) LogActivity(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error) {
	record := map[string]any{
		"user_id":       entry.UserID,
		"activity_type": entry.ActivityType,
	}
	if entry.CompanyID != "" {
		record["company_id"] = entry.CompanyID
	}
	if entry.Description != "" {
		record["description"] = entry.Description
	}
	if len(entry.Metadata) > 0 {
		record["metadata"] = entry.Metadata
	}

	data, err := c.call(ctx, "activity.log", func() ([]byte, error) {
		data, _, err := c.sb.From(activityTable).
			Insert(record, false, "", "representation", "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	logged, err := decodeOne[domain.ActivityLog](data, "activity entry")
	if err != nil {
		return nil, err
	}
	if logged == nil {
		return nil, apperrors.NewExternal("upstream returned no activity row", nil)
	}
	return logged, nil
}

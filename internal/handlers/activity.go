package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	"hdfhr-backend/pkg/api"
)

// ActivityStore is what the activity endpoints need from the repository layer.
type ActivityStore interface {
	List(ctx context.Context, query repository.ActivityQuery, refresh bool) ([]domain.ActivityLog, bool, error)
	Log(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error)
}

// ActivityHandler serves the /api/activity endpoints.
type ActivityHandler struct {
	activity ActivityStore
	logger   *zap.Logger
}

// NewActivityHandler builds an activity handler.
func NewActivityHandler(activity ActivityStore, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{activity: activity, logger: logger}
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	query := repository.ActivityQuery{
		CompanyID: r.URL.Query().Get("companyId"),
		UserID:    r.URL.Query().Get("userId"),
		Page:      parsePage(r),
	}

	entries, fromCache, err := h.activity.List(r.Context(), query, parseRefresh(r))
	writeList(w, entries, query.Page, fromCache, err)
}

// Log handles POST /api/activity.
func (h *ActivityHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req api.LogActivityRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	logged, err := h.activity.Log(r.Context(), domain.ActivityLog{
		CompanyID:    req.CompanyID,
		UserID:       req.UserID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		Metadata:     req.Metadata,
	})
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, logged)
}

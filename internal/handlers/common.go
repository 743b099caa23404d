// Package handlers exposes the HR admin HTTP API. Read endpoints are served
// through the query cache and stamp X-From-Cache / X-Stale-Data headers so
// the web client can badge degraded data.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/repository"
	"hdfhr-backend/pkg/api"
	apperrors "hdfhr-backend/pkg/errors"
)

var validate = validator.New()

// decode parses and validates a JSON request body.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.NewValidation(err.Error())
	}
	return nil
}

// parsePage reads the page and pageSize query parameters, clamping the size.
func parsePage(r *http.Request) repository.Page {
	query := r.URL.Query()
	page := repository.Page{Number: 1, Size: repository.DefaultPageSize}
	if n, err := strconv.Atoi(query.Get("page")); err == nil && n > 0 {
		page.Number = n
	}
	if s, err := strconv.Atoi(query.Get("pageSize")); err == nil && s > 0 && s <= 100 {
		page.Size = s
	}
	return page
}

// parseRefresh reads the flag that bypasses the cache fast path.
func parseRefresh(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}

func setCacheHeaders(w http.ResponseWriter, fromCache, stale bool) {
	w.Header().Set(api.HeaderFromCache, strconv.FormatBool(fromCache))
	if stale {
		w.Header().Set(api.HeaderStaleData, "true")
	}
}

// writeReadError ends a failed cached read. An offline miss maps to 503 so
// the client can tell a connectivity gap from an upstream fault.
func writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, cache.ErrNetworkUnavailable) {
		api.Error(w, http.StatusServiceUnavailable, "network unavailable")
		return
	}
	api.FromError(w, err)
}

// writeList finishes a cached list read. Advisory staleness becomes response
// metadata; any other error ends the request.
func writeList[T any](w http.ResponseWriter, items []T, page repository.Page, fromCache bool, err error) {
	stale := errors.Is(err, cache.ErrStaleData)
	if err != nil && !stale {
		writeReadError(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}

	setCacheHeaders(w, fromCache, stale)
	api.Success(w, http.StatusOK, api.ListResponse{
		Data: items,
		Meta: api.ListMeta{
			Page:      page.Number,
			PageSize:  page.Size,
			FromCache: fromCache,
			Stale:     stale,
		},
	})
}

// writeDetail finishes a cached detail read. A nil record means the id
// matched nothing upstream.
func writeDetail[T any](w http.ResponseWriter, what string, item *T, fromCache bool, err error) {
	stale := errors.Is(err, cache.ErrStaleData)
	if err != nil && !stale {
		writeReadError(w, err)
		return
	}
	if item == nil {
		api.Error(w, http.StatusNotFound, what+" not found")
		return
	}

	setCacheHeaders(w, fromCache, stale)
	api.Success(w, http.StatusOK, item)
}

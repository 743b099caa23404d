// Package api provides standardized helper functions for HTTP API responses.
package api

import (
	"encoding/json"
	"net/http"

	apperrors "hdfhr-backend/pkg/errors"
)

// Headers surfaced to the admin web client so it can badge cached and
// stale responses.
const (
	HeaderFromCache = "X-From-Cache"
	HeaderStaleData = "X-Stale-Data"
	HeaderRequestID = "X-Request-ID"
)

// Success sends a standardized successful HTTP response with optional JSON data.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error sends a standardized error response with consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// FromError maps an application error to the matching HTTP status code.
// Internal errors are masked with a generic message.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	case apperrors.IsUnavailable(err):
		Error(w, http.StatusServiceUnavailable, err.Error())
	case apperrors.IsExternal(err):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

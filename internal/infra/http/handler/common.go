// Package handler contains the HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/anish-u/insight-guard/pkg/apierror"
	"github.com/anish-u/insight-guard/pkg/domain/shared"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/validator"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps application errors to API error responses.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, resource string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrNotFound):
		apierror.NotFound(resource).WriteJSON(w)
	case errors.Is(err, shared.ErrInvalidInput):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.As(err, &validationErrs):
		apierror.ValidationFailed("Validation failed", validationErrs).WriteJSON(w)
	default:
		log.Error("request failed", "resource", resource, "error", err)
		apierror.FromError(err).WriteJSON(w)
	}
}

// writeValidationError writes validation errors as a 422 response.
func writeValidationError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		apierror.ValidationFailed("Validation failed", validationErrs).WriteJSON(w)
		return
	}
	apierror.BadRequest(err.Error()).WriteJSON(w)
}

// parseQueryInt parses a query parameter as an integer.
// Returns defaultVal if the input is empty or invalid.
func parseQueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// parseQueryIntPtr parses a query parameter as an integer pointer.
// Returns nil if the input is empty or invalid.
func parseQueryIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &val
}

package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Standardized API error codes.
const (
	// Authentication errors (AUTH_*)
	ErrInvalidToken          = "AUTH_001" // Invalid token
	ErrExpiredToken          = "AUTH_002" // Expired token
	ErrInsufficientPrivilege = "AUTH_003" // Insufficient privileges

	// Validation errors (VAL_*)
	ErrInvalidRequest      = "VAL_001" // Invalid request
	ErrMissingRequiredData = "VAL_002" // Required data missing
	ErrInvalidFormat       = "VAL_003" // Invalid data format
	ErrInvalidDateRange    = "VAL_004" // Invalid or inverted date range

	// Report errors (RPT_*). A store failure is an explicit error, never an
	// empty report: clients must be able to tell "no data" from "no answer".
	ErrReportBuildFailed    = "RPT_001" // Aggregation aborted on a store failure
	ErrSnapshotNotFound     = "RPT_002" // No cached snapshot for the requested day
	ErrSchedulerUnavailable = "RPT_003" // Snapshot scheduler not running

	// Server errors (SRV_*)
	ErrInternalServer    = "SRV_001" // Internal server error
	ErrDatabaseOperation = "SRV_002" // Database operation error
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrInvalidDateRange:      http.StatusBadRequest,
	ErrReportBuildFailed:     http.StatusInternalServerError,
	ErrSnapshotNotFound:      http.StatusNotFound,
	ErrSchedulerUnavailable:  http.StatusServiceUnavailable,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError is the standardized error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into an API error payload.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}

package http

import (
	"errors"
	"net/http"

	"git-repository-analyzer/internal/evaluation"
	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/stats"
	"git-repository-analyzer/internal/validation"
)

// ErrRepositoryNotFound is returned when no downloaded copy matches a request
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Error writes an error response to the client
func Error(w http.ResponseWriter, err error, statusCode int) {
	// Parse validation errors
	var validationErr *validation.ValidationErrors
	if errors.As(err, &validationErr) {
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: validationErr.Errors,
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	// Parse database errors
	var dbErr *validation.DatabaseError
	if errors.As(err, &dbErr) {
		// Map database errors to appropriate HTTP status codes
		status := mapDatabaseErrorToHTTPStatus(dbErr)
		JSON(w, status, ErrorResponse{
			Error:   dbErr.Message,
			Code:    dbErr.Type,
			Details: map[string]string{"field": dbErr.Field},
		})
		return
	}

	if status, code, ok := mapDomainError(err); ok {
		JSON(w, status, ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
		return
	}

	// Default error response
	JSON(w, statusCode, ErrorResponse{
		Error: err.Error(),
	})
}

// mapDomainError maps repository, aggregation and evaluation errors to HTTP status codes
func mapDomainError(err error) (int, string, bool) {
	var ioErr *stats.AggregationIOError
	switch {
	case errors.Is(err, git.ErrNotARepository):
		return http.StatusUnprocessableEntity, "NOT_A_REPOSITORY", true
	case errors.As(err, &ioErr):
		return http.StatusServiceUnavailable, "AGGREGATION_IO_ERROR", true
	case errors.Is(err, ErrRepositoryNotFound):
		return http.StatusNotFound, "REPOSITORY_NOT_FOUND", true
	case errors.Is(err, evaluation.ErrNotFound):
		return http.StatusNotFound, "EVALUATION_NOT_FOUND", true
	case errors.Is(err, evaluation.ErrInvalidRepository):
		return http.StatusBadRequest, "INVALID_REPOSITORY", true
	default:
		return 0, "", false
	}
}

// mapDatabaseErrorToHTTPStatus maps database error types to HTTP status codes
func mapDatabaseErrorToHTTPStatus(dbErr *validation.DatabaseError) int {
	switch dbErr.Type {
	case validation.ErrorTypeUniqueViolation:
		return http.StatusConflict
	case validation.ErrorTypeInvalidData:
		return http.StatusBadRequest
	case validation.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case validation.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

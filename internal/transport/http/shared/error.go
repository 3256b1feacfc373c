package shared

import (
	"errors"
	"net/http"

	respond "regdesk/internal/transport/http/json"
	dErrors "regdesk/pkg/domain-errors"
)

// ErrorResponse is the uniform failure envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and
// the {success:false, error} envelope.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		message := domainErr.Message
		if message == "" {
			message = string(domainErr.Code)
		}
		respond.WriteJSON(w, status, ErrorResponse{Success: false, Error: message})
		return
	}

	// Fallback for unexpected errors; never leak internals to clients.
	respond.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeUploadFailed, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

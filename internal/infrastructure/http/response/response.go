package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mrops-br/inventory-api/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	IncidentID string `json:"incident_id,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, ErrorResponse{
		Error:   errorType(status),
		Message: err.Error(),
	})
}

// InternalError hides the cause from the caller and returns an incident ID
// that the caller can quote and the operator can find in the logs.
func InternalError(w http.ResponseWriter) string {
	incidentID := uuid.NewString()
	JSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:      errorType(http.StatusInternalServerError),
		Message:    "internal server error",
		IncidentID: incidentID,
	})
	return incidentID
}

// StatusFor maps a domain error kind to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrDuplicateSKU):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorType(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusInternalServerError:
		return "internal_server_error"
	}
	return "error"
}

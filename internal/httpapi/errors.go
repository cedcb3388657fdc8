package httpapi

import (
	"net/http"

	json "github.com/goccy/go-json"

	"motiond/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeValidationError writes a 422 with field-level details.
func writeValidationError(w http.ResponseWriter, fields []types.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{
		Error:  "validation failed",
		Code:   http.StatusUnprocessableEntity,
		Fields: fields,
	})
}

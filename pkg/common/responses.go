package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "edutube/pkg/errors"
)

// MessageResponse is the body of write endpoints that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// IDResponse is the body returned after creating an entity.
type IDResponse struct {
	ID string `json:"id"`
}

// RespondJSON sends data as a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondMessage sends {"message": message} with status 200.
func RespondMessage(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// DecodeJSON reads the request body into dst. Malformed bodies are reported
// as validation errors; an empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return pkgerrors.NewValidationError("Invalid request body").WithCause(err)
}

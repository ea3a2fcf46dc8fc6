package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"notesapp/internal/middleware"
	"notesapp/internal/service"
)

// response is the uniform JSON envelope of the API.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: message, Data: data})
}

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var status int
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		msg = "something went wrong, please try again later"
	}
	writeJSON(w, status, response{Success: false, Message: msg})
}

// requireUser resolves the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "unauthorized"})
		return "", false
	}
	return id, true
}

// decodeBody parses a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return false
	}
	return true
}

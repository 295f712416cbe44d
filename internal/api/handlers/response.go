package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shop-service/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess emits the {success:true, message, <payload>} envelope
// every endpoint answers with.
func writeSuccess(w http.ResponseWriter, status int, message string, payload map[string]any) {
	resp := map[string]any{
		"success": true,
		"message": message,
	}
	for k, v := range payload {
		resp[k] = v
	}
	writeJSON(w, status, resp)
}

// writeError emits {success:false, message, error:<stable code>}. The
// code is a short machine-readable tag; raw internal errors never reach
// the client.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
		"error":   code,
	})
}

// writeRepoError maps repository sentinel errors onto the HTTP error
// taxonomy, falling back to a 500 with the given message.
func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return false
	}

	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return false
	}

	return true
}

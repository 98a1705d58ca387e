package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConcurrencyConflict), apperr.IsBusinessRule(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: apperr.Code(err), Message: "internal server error"})
		return
	}
	log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: apperr.Code(err), Message: err.Error()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// retryOnConflict runs fn again once when it lost an optimistic
// concurrency race. fn must re-read everything it writes.
func retryOnConflict[T any](r *http.Request, fn func() (T, error)) (T, error) {
	out, err := fn()
	if errors.Is(err, apperr.ErrConcurrencyConflict) {
		log.Warn("Concurrent modification, retrying once", "method", r.Method, "path", r.URL.Path)
		return fn()
	}
	return out, err
}

// respond runs fn with one conflict retry and writes its result.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, fn func() (T, error)) {
	out, err := retryOnConflict(r, fn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, out)
}

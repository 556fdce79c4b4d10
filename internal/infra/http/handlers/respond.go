package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

// APIResponse is the one JSON envelope every endpoint speaks.
type APIResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondError is the top of the error stack: it logs the fault with its
// request context and maps it to a status. Error detail reaches the
// client only outside production.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
		message = "Resource not found"
	case strings.Contains(err.Error(), "Too many requests"):
		status = http.StatusTooManyRequests
		message = "Too many requests. Please try again later."
	}

	log.Printf("Request error: %v (path=%s method=%s ip=%s)",
		err, r.URL.Path, r.Method, getClientIP(r))

	body := APIResponse{Success: false, Message: message}
	if !isProduction() {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// NotFound answers unmatched routes with the path that missed.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, APIResponse{
		Success: false,
		Message: fmt.Sprintf("Not Found - %s", r.URL.Path),
	})
}

func isProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

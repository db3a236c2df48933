package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/uaparser/pkg/environment"
)

// ErrorDetail is the body of every error response. Details is only filled
// outside production.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: ErrorDetail{Code: code, Message: msg}})
}

// writeErrorCause is writeError plus the cause for non-production callers.
func writeErrorCause(w http.ResponseWriter, r *http.Request, status int, code, msg string, cause error) {
	detail := ErrorDetail{Code: code, Message: msg}
	if cause != nil && !environment.FromContext(r.Context()).IsProduction() {
		detail.Details = cause.Error()
	}
	writeJSON(w, status, errorResponse{Error: detail})
}

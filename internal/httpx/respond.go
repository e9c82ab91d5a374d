package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents a JSON error response. RequestID echoes X-Request-ID so a
// client can quote it when reporting a failure.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteJSON writes v as JSON with the given status code. Encoding failures are logged
// through the request's logger; the status line has already gone out by then.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctx := r.Context()
		LoggerFrom(ctx).ErrorContext(ctx, "failed to encode JSON response",
			"error", err.Error(),
			"status", status,
			"path", r.URL.Path,
		)
	}
}

// WriteError writes a JSON error response tagged with the request ID, if any.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	WriteJSON(w, r, status, ErrorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		RequestID: GetRequestID(r.Context()),
	})
}

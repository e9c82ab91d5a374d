package httpx

import (
	"net/http"

	"github.com/sundayezeilo/readlater/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Unauthorized is reported as 404 so a record owned by someone else is
// indistinguishable from one that does not exist.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound, errx.Unauthorized:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal, errx.Misuse:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound, errx.Unauthorized:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid_input"
	case errx.Forbidden:
		return "forbidden"
	case errx.Unavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// WriteKindError writes the status and code for err's kind. Invalid errors carry
// their own message to the client; every other kind uses message.
func WriteKindError(w http.ResponseWriter, r *http.Request, err error, message string) {
	kind := errx.KindOf(err)
	if kind == errx.Invalid {
		message = err.Error()
	}
	WriteError(w, r, ErrorKindToStatus(kind), ErrorKindToCode(kind), message, nil)
}

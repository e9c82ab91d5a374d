package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sundayezeilo/readlater/internal/errx"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (1MB).
	MaxRequestBodySize = 1 << 20
)

const decodeOp = "httpx.DecodeJSON"

// DecodeJSON decodes a single JSON object from the request body into T. Every
// failure is an errx.Invalid whose message is safe to show the client. Fields T
// does not declare are rejected.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var zeroValue T

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	defer func() {
		_ = r.Body.Close()
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var v T
	if err := decoder.Decode(&v); err != nil {
		return zeroValue, errx.E(decodeOp, errx.Invalid, describeDecodeError(err))
	}

	if decoder.More() {
		return zeroValue, errx.E(decodeOp, errx.Invalid, errors.New("request body contains multiple JSON objects"))
	}

	return v, nil
}

func describeDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var unmarshalErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
	case errors.As(err, &unmarshalErr):
		return fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("request body too large (max %d bytes)", MaxRequestBodySize)
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body is truncated")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		// encoding/json has no typed error for this case.
		return errors.New(strings.TrimPrefix(err.Error(), "json: "))
	default:
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
}

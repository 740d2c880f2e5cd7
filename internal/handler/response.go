package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds every request body. An order is four short fields.
const maxBodyBytes = 4 << 10

var (
	errNotJSON       = errors.New("request body must be JSON with Content-Type: application/json")
	errBodyTooLarge  = errors.New("request body too large")
	errTrailingData  = errors.New("request body must contain a single JSON object")
	errEmptyBody     = errors.New("request body is empty")
	errTruncatedBody = errors.New("request body ends before the JSON object does")
)

// WriteJSON writes data as the JSON response body. Book and price
// responses go stale on the next order, so nothing is cacheable.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // status already sent
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an errorResponse with a machine-readable code and a
// human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes a single JSON object from the request body into v.
// The body is capped at maxBodyBytes; unknown fields and trailing data are
// rejected. Errors name the offending field or byte offset where possible
// and wrap errBodyTooLarge when the cap is hit.
func ParseJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return errNotJSON
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

func decodeError(err error) error {
	var (
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
	case errors.Is(err, io.EOF):
		return errEmptyBody
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errTruncatedBody
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("request body is malformed JSON at byte %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Errorf("field %q has the wrong type: got %s", typeErr.Field, typeErr.Value)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return fmt.Errorf("request body is not a valid order: %w", err)
	}
}

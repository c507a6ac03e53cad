package reddit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrAuthentication is returned when Reddit rejects the account or
// application credentials.
var ErrAuthentication = errors.New("reddit authentication failed")

// APIErrorItem is one entry of a Reddit "json.errors" array.
type APIErrorItem struct {
	Type    string
	Message string
	Field   string
}

// APIError is a structured rejection of a request, such as RESTRICTED_TO_PM
// when an account is too new to send private messages.
type APIError struct {
	Items []APIErrorItem
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		s := item.Type
		if item.Message != "" {
			s += ": " + item.Message
		}
		if item.Field != "" {
			s += " (" + item.Field + ")"
		}
		parts = append(parts, s)
	}
	return "reddit rejected the request: " + strings.Join(parts, "; ")
}

// Has reports whether any item has the given error type.
func (e *APIError) Has(errType string) bool {
	for _, item := range e.Items {
		if item.Type == errType {
			return true
		}
	}
	return false
}

// StatusError is returned for non-2xx responses that are not authentication failures.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, truncate(e.Body, 200))
}

// apiErrorFrom extracts a json.errors array, returning nil when the
// response carries none. Each entry is [type, message, field].
func apiErrorFrom(body gjson.Result) *APIError {
	errs := body.Get("json.errors")
	if !errs.IsArray() || len(errs.Array()) == 0 {
		return nil
	}

	apiErr := &APIError{}
	for _, entry := range errs.Array() {
		apiErr.Items = append(apiErr.Items, APIErrorItem{
			Type:    entry.Get("0").String(),
			Message: entry.Get("1").String(),
			Field:   entry.Get("2").String(),
		})
	}
	return apiErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

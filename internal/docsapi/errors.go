package docsapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed matches every *StatusError.
	ErrRequestFailed = errors.New("request failed")
	// ErrNotFound matches a *StatusError carrying 404.
	ErrNotFound = errors.New("not found")
)

// StatusError reports a response whose status was not 2xx. Body holds the
// response text for diagnostics; it is logged but kept out of Error().
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

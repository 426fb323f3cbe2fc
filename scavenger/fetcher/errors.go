package fetcher

import (
	"errors"
	"fmt"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

var (
	ErrRequest  = errors.New("request failed")
	ErrStatus   = errors.New("unexpected status code")
	ErrDecode   = errors.New("failed to decode response body")
	ErrRateWait = errors.New("rate limiter wait failed")
)

// Error is the error type for failed fetches. All fetch failures are warnings:
// the caller falls back to a default value.
type Error struct {
	url  string
	errs []error
}

func (e *Error) Error() string {
	return e.Unwrap().Error()
}

func (e *Error) Unwrap() error {
	return errlvl.Wrap(fmt.Errorf("GET %s: %w", e.url, errors.Join(e.errs...)), errlvl.WARN)
}

// newError creates a new Error for the given URL.
func newError(url string, errs ...error) *Error {
	return &Error{
		url:  url,
		errs: errs,
	}
}

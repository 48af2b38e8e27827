package pr0game

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionInvalid is returned when the game no longer recognizes the session
var ErrSessionInvalid = errors.New("game session is not logged in")

// ParseError is returned when a page lacks an element the client depends on
type ParseError struct {
	Page    string
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s page: %s: %v", e.Page, e.Element, e.Err)
	}
	return fmt.Sprintf("parse %s page: %s not found", e.Page, e.Element)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a construction cannot be found on its page
type NotFoundError struct {
	Page string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no build button for %q on the %s page", e.Name, e.Page)
}

// HTTPError is a non-retryable response status
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// retryableError marks failures worth another attempt
type retryableError struct {
	message    string
	retryAfter time.Duration
	err        error
}

func (e *retryableError) Error() string {
	return e.message
}

func (e *retryableError) Unwrap() error {
	return e.err
}

package newsapi

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey  = errors.New("news api key is empty")
	ErrInvalidCountry = errors.New("country code must be two letters")
)

// TransportError reports connectivity, timeout, or cancellation failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("news api request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("news api returned http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("news api returned http %d: %s", e.StatusCode, e.Body)
}

// ParseError reports a body that is not a well-formed envelope.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode news api envelope: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIStatusError reports an envelope whose status is not "ok".
type APIStatusError struct {
	Status  string
	Code    string
	Message string
}

func (e *APIStatusError) Error() string {
	return "API returned status: " + e.Status
}

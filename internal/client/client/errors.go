package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrRequestFailed = errors.New("request failed")
)

// DefaultErrorMessage is shown when neither the backend nor the caller has
// anything more specific to say.
const DefaultErrorMessage = "An error occurred"

// APIError is a failed backend call.
type APIError struct {
	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int
	// Message is the backend's "message" field, or DefaultErrorMessage.
	Message string
	// FromServer reports whether Message came from the response body.
	FromServer bool

	err error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s", e.err)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

func newStatusError(status int, message string) *APIError {
	e := &APIError{StatusCode: status, Message: message, FromServer: message != ""}
	if !e.FromServer {
		e.Message = DefaultErrorMessage
	}
	switch status {
	case http.StatusUnauthorized:
		e.err = ErrUnauthorized
	case http.StatusForbidden:
		e.err = ErrForbidden
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.err = ErrUnavailable
	default:
		e.err = ErrRequestFailed
	}
	return e
}

func newTransportError(err error) *APIError {
	return &APIError{
		Message: DefaultErrorMessage,
		err:     fmt.Errorf("%w: %w", ErrUnavailable, err),
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// MessageOf picks the text to show the user for err: the backend's own
// message when it sent one, otherwise fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.FromServer {
		return apiErr.Message
	}
	return fallback
}

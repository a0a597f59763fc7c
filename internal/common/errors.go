package common

import "errors"

var (
	// ErrInvalidToken is returned when a bearer token cannot be parsed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for a well-formed token past its exp claim.
	ErrTokenExpired = errors.New("token expired")
)

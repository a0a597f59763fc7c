// Package common contains constants and sentinel errors shared by the
// castkeeper client and the in-process fake backend.
package common

// HTTP headers exchanged with the backend.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
)

// OTPLength is the number of digits in every one-time code.
const OTPLength = 6

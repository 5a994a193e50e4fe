package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when no account matches the email or
	// the password does not match. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when email or password is empty
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrTokenInvalid is returned when a token is malformed or its signature does not verify
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned when a correctly signed token is past its expiration
	ErrTokenExpired = errors.New("token expired")
	// ErrSigningKeyUnavailable is returned when no signing secret is configured
	ErrSigningKeyUnavailable = errors.New("signing key unavailable")
	// ErrAccountNotFound is returned by an AccountFinder when no account has the email
	ErrAccountNotFound = errors.New("account not found")
)

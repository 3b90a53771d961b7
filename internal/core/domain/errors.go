package domain

import "errors"

// Error categories. Handlers map these to HTTP status codes; the specialised
// errors below unwrap to one of them.
var (
	ErrBadCredentials       = errors.New("bad username/password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotFound         = errors.New("not found")
	ErrNoResetRequested     = errors.New("reset code was not sent")
	ErrWrongCode            = errors.New("wrong code")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrTooManyAttempts      = errors.New("too many attempts, try again later")
	ErrNotifierUnavailable  = errors.New("notification queue unavailable")
	ErrEmptyMessage         = errors.New("message text is required")
)

var (
	ErrUserExists    = categorized("user with this phone/email already exists", ErrBadCredentials)
	ErrWrongPassword = categorized("wrong password", ErrBadCredentials)

	// ErrPasswordTooLong is returned for passwords over 72 bytes, the bcrypt
	// input limit. Multibyte characters count by their encoded size.
	ErrPasswordTooLong = categorized("password must be at most 72 bytes", ErrBadCredentials)

	ErrInvalidToken     = categorized("invalid token", ErrAuthenticationFailed)
	ErrTokenExpired     = categorized("token expired", ErrAuthenticationFailed)
	ErrNotAuthenticated = categorized("authentication credentials were not provided", ErrAuthenticationFailed)
)

type categoryError struct {
	msg      string
	category error
}

func categorized(msg string, category error) error {
	return &categoryError{msg: msg, category: category}
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Unwrap() error { return e.category }

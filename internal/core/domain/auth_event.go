package domain

import "time"

// AuthEventKind names a credential lifecycle event recorded in the audit trail.
type AuthEventKind string

const (
	EventSignUp          AuthEventKind = "signup"
	EventSignIn          AuthEventKind = "signin"
	EventPasswordChanged AuthEventKind = "password_changed"
	EventResetRequested  AuthEventKind = "reset_requested"
	EventResetCompleted  AuthEventKind = "reset_completed"
)

// AuthEvent is a single audit record.
type AuthEvent struct {
	UserID   string
	Username string
	Kind     AuthEventKind
	At       time.Time
}

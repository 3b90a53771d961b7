package ports

import (
	"context"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	Username string
	Name     string
	Password string
	Photo    string
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Token string
	User  *domain.User
}

// ProfileUpdate carries a profile edit. Nil fields are left unchanged. The
// password is changed only when both OldPassword and NewPassword are set.
type ProfileUpdate struct {
	Name        *string
	Photo       *string
	OldPassword *string
	NewPassword *string
}

// ResetDispatch describes where a reset code went. Code is only set for the
// phone channel, where it is handed back to the caller.
type ResetDispatch struct {
	Channel     domain.Channel
	Destination string
	Code        int
}

// AuthService is the credential manager.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, username, password string) (*AuthResult, error)
	EditProfile(ctx context.Context, user *domain.User, upd ProfileUpdate) (*domain.User, error)
	RequestReset(ctx context.Context, username string) (*ResetDispatch, error)
	ConfirmReset(ctx context.Context, username string, code int, newPassword string) error
}

// Authenticator resolves the principal behind an Authorization header value.
// An empty header yields (nil, nil): the request is anonymous.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*domain.User, error)
}

// SupportService forwards user messages to the support mailbox.
type SupportService interface {
	Submit(ctx context.Context, user *domain.User, text string) error
}

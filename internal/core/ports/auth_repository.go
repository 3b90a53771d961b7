package ports

import (
	"context"
	"time"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// ProfileChange lists the fields a profile edit writes. Nil fields are left
// untouched in the store.
type ProfileChange struct {
	Name  *string
	Photo *string
	// PasswordHash, when set, replaces the stored hash only if the stored
	// hash still equals ExpectedHash.
	PasswordHash *string
	ExpectedHash string
	UpdatedAt    time.Time
}

// UserRepository persists principals. Lookups of unknown users return
// domain.ErrUserNotFound; Create returns domain.ErrUserExists when the
// username is taken. Principals are never deleted by this service.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateProfile applies ch in a single write and returns the stored user.
	// A password change whose ExpectedHash no longer matches fails with
	// domain.ErrWrongPassword and writes nothing.
	UpdateProfile(ctx context.Context, id string, ch ProfileChange) (*domain.User, error)
}

// ResetCodeRepository stores at most one reset code per user.
type ResetCodeRepository interface {
	// Save replaces any previous code of the same user.
	Save(ctx context.Context, code *domain.ResetCode) error
	// Find returns domain.ErrNoResetRequested when the user has no code.
	Find(ctx context.Context, userID string) (*domain.ResetCode, error)
	Delete(ctx context.Context, userID string) error
	// Consume deletes the code matching (userID, code) and stores passwordHash
	// as one unit. It returns domain.ErrNoResetRequested when no such code
	// exists any more, in which case the password is left untouched.
	Consume(ctx context.Context, userID string, code int, passwordHash string) error
}

// AuditRepository appends credential lifecycle events.
type AuditRepository interface {
	Record(ctx context.Context, event *domain.AuthEvent) error
}

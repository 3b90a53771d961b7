package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
	"github.com/tlc-app/tlc-backend/internal/core/token"
)

// TokenCodec abstracts token minting and decoding.
type TokenCodec interface {
	Mint(principalID string) (string, error)
	Decode(raw string) (*token.Payload, error)
}

// Authenticator implements ports.Authenticator on top of a TokenCodec and the
// user store.
type Authenticator struct {
	codec TokenCodec
	users ports.UserRepository
	now   func() time.Time
	log   zerolog.Logger
}

func NewAuthenticator(codec TokenCodec, users ports.UserRepository, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		codec: codec,
		users: users,
		now:   time.Now,
		log:   log.With().Str("component", "authenticator").Logger(),
	}
}

// Authenticate resolves the principal behind "Bearer <token>". An empty header
// is anonymous and yields (nil, nil).
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*domain.User, error) {
	if authorization == "" {
		return nil, nil
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return nil, domain.ErrInvalidToken
	}

	payload, err := a.codec.Decode(strings.TrimSpace(parts[1]))
	if err != nil {
		a.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	// Valid strictly before the embedded expiry.
	if !a.now().Before(payload.Expiry) {
		return nil, domain.ErrTokenExpired
	}

	user, err := a.users.FindByID(ctx, payload.PrincipalID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

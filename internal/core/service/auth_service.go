package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

const resetSubject = "TLC password reset"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthOptions tunes the credential manager. The zero value reproduces the
// historical behaviour: no attempt limit and reset codes that never expire.
type AuthOptions struct {
	BcryptCost   int
	ResetCodeTTL time.Duration
	// Limiter is optional; nil disables attempt limiting.
	Limiter ports.AttemptLimiter
}

// AuthService implements sign-up, sign-in, profile edits and password reset.
type AuthService struct {
	users    ports.UserRepository
	codes    ports.ResetCodeRepository
	audit    ports.AuditRepository
	codec    TokenCodec
	notifier ports.Notifier
	limiter  ports.AttemptLimiter
	cost     int
	codeTTL  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	codes ports.ResetCodeRepository,
	audit ports.AuditRepository,
	codec TokenCodec,
	notifier ports.Notifier,
	log zerolog.Logger,
	opts AuthOptions,
) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		codes:    codes,
		audit:    audit,
		codec:    codec,
		notifier: notifier,
		limiter:  opts.Limiter,
		cost:     cost,
		codeTTL:  opts.ResetCodeTTL,
		now:      time.Now,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// SignUp creates a new account and returns it with a fresh token. An existing
// username fails with domain.ErrUserExists and leaves that account untouched.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrBadCredentials
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	// The store enforces username uniqueness, so a concurrent sign-up still
	// ends in ErrUserExists.
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Name:         in.Name,
		Photo:        in.Photo,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.issue(created)
	if err != nil {
		return nil, err
	}
	s.record(ctx, created, domain.EventSignUp)
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return result, nil
}

// SignIn checks the password of an existing account.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("signin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.record(ctx, user, domain.EventSignIn)
	return result, nil
}

// EditProfile applies upd to user. The stored record is re-read so the old
// password is checked against the current hash, and only the supplied fields
// are written. A password change requires the current password; on mismatch
// nothing is stored.
func (s *AuthService) EditProfile(ctx context.Context, user *domain.User, upd ports.ProfileUpdate) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("edit profile: %w", err)
	}

	ch := ports.ProfileChange{
		Name:      upd.Name,
		Photo:     upd.Photo,
		UpdatedAt: s.now().UTC(),
	}
	if upd.OldPassword != nil && upd.NewPassword != nil {
		if bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(*upd.OldPassword)) != nil {
			return nil, domain.ErrWrongPassword
		}
		if *upd.NewPassword == "" {
			return nil, domain.ErrBadCredentials
		}
		hash, err := s.hash(*upd.NewPassword)
		if err != nil {
			return nil, err
		}
		ch.PasswordHash = &hash
		ch.ExpectedHash = current.PasswordHash
	}

	updated, err := s.users.UpdateProfile(ctx, current.ID, ch)
	if err != nil {
		if errors.Is(err, domain.ErrWrongPassword) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("edit profile: %w", err)
	}
	if ch.PasswordHash != nil {
		s.record(ctx, updated, domain.EventPasswordChanged)
	}
	return updated, nil
}

// RequestReset mints a new reset code for username. Phone users get the code
// back directly; email users get it through the notifier.
func (s *AuthService) RequestReset(ctx context.Context, username string) (*ports.ResetDispatch, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("request reset: %w", err)
	}

	channel := domain.ClassifyUsername(username)
	if channel == domain.ChannelUnknown {
		return nil, domain.ErrInvalidUsername
	}

	code, err := domain.NewResetCode(user.ID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("request reset: mint code: %w", err)
	}
	if err := s.codes.Save(ctx, code); err != nil {
		return nil, fmt.Errorf("request reset: %w", err)
	}

	dispatch := &ports.ResetDispatch{Channel: channel, Destination: username}
	switch channel {
	case domain.ChannelPhone:
		dispatch.Code = code.Code
	case domain.ChannelEmail:
		err := s.notifier.Notify(ctx, domain.Notification{
			To:      username,
			Subject: resetSubject,
			Body:    fmt.Sprintf("Your password reset code: %d", code.Code),
		})
		if err != nil {
			return nil, err
		}
	}

	s.record(ctx, user, domain.EventResetRequested)
	s.log.Info().Str("user_id", user.ID).Str("channel", string(channel)).Msg("reset code issued")
	return dispatch, nil
}

// ConfirmReset sets newPassword when code matches the user's reset code. The
// code is consumed in the same store operation as the password update.
func (s *AuthService) ConfirmReset(ctx context.Context, username string, code int, newPassword string) error {
	if newPassword == "" {
		return domain.ErrBadCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("confirm reset: %w", err)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, user.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("attempt limiter unavailable, checking code anyway")
		} else if !allowed {
			return domain.ErrTooManyAttempts
		}
	}

	stored, err := s.codes.Find(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoResetRequested) {
			return domain.ErrNoResetRequested
		}
		return fmt.Errorf("confirm reset: %w", err)
	}

	if stored.Expired(s.codeTTL, s.now().UTC()) {
		if err := s.codes.Delete(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to drop expired reset code")
		}
		return domain.ErrNoResetRequested
	}

	if stored.Code != code {
		if s.limiter != nil {
			if err := s.limiter.RecordFailure(ctx, user.ID); err != nil {
				s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record reset attempt")
			}
		}
		return domain.ErrWrongCode
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.codes.Consume(ctx, user.ID, code, hash); err != nil {
		if errors.Is(err, domain.ErrNoResetRequested) {
			return domain.ErrNoResetRequested
		}
		return fmt.Errorf("confirm reset: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to clear reset attempts")
		}
	}
	s.record(ctx, user, domain.EventResetCompleted)
	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	tok, err := s.codec.Mint(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: tok, User: user}, nil
}

func (s *AuthService) hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// record appends to the audit trail. Failures are logged, never returned.
func (s *AuthService) record(ctx context.Context, user *domain.User, kind domain.AuthEventKind) {
	err := s.audit.Record(ctx, &domain.AuthEvent{
		UserID:   user.ID,
		Username: user.Username,
		Kind:     kind,
		At:       s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Str("event", string(kind)).Msg("failed to record auth event")
	}
}

package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

type stubAuthService struct {
	signUpFn       func(ctx context.Context, in ports.SignUpInput) (*ports.AuthResult, error)
	signInFn       func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	editProfileFn  func(ctx context.Context, user *domain.User, upd ports.ProfileUpdate) (*domain.User, error)
	requestResetFn func(ctx context.Context, username string) (*ports.ResetDispatch, error)
	confirmResetFn func(ctx context.Context, username string, code int, newPassword string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.AuthResult, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) SignIn(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.signInFn(ctx, username, password)
}

func (s *stubAuthService) EditProfile(ctx context.Context, user *domain.User, upd ports.ProfileUpdate) (*domain.User, error) {
	return s.editProfileFn(ctx, user, upd)
}

func (s *stubAuthService) RequestReset(ctx context.Context, username string) (*ports.ResetDispatch, error) {
	return s.requestResetFn(ctx, username)
}

func (s *stubAuthService) ConfirmReset(ctx context.Context, username string, code int, newPassword string) error {
	return s.confirmResetFn(ctx, username, code, newPassword)
}

type stubSupportService struct {
	submitFn func(ctx context.Context, user *domain.User, text string) error
}

func (s *stubSupportService) Submit(ctx context.Context, user *domain.User, text string) error {
	return s.submitFn(ctx, user, text)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// expectError asserts that err resolves to the given status and reason.
func expectError(t *testing.T, err error, status int, reason string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d %s, got nil error", status, reason)
	}
	gotStatus, gotReason, _, _ := Resolve(err)
	if gotStatus != status || gotReason != reason {
		t.Fatalf("expected %d %s, got %d %s (%v)", status, reason, gotStatus, gotReason, err)
	}
}

package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Info  string `json:"info"`
}

type infoResponse struct {
	Info string `json:"info"`
}

// --- Request / Response types ---

type signUpRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Name     string `json:"name"     validate:"max=50"`
	Password string `json:"password" validate:"required,max=50"`
	Photo    string `json:"photo"    validate:"max=255"`
}

type signInRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=50"`
}

type sendCodeRequest struct {
	Username string `json:"username" validate:"required,max=50"`
}

type resetPasswordRequest struct {
	Username string    `json:"username" validate:"required,max=50"`
	Code     resetCode `json:"code"     validate:"required"`
	Password string    `json:"password" validate:"required,max=50"`
}

type editProfileRequest struct {
	Name        *string `json:"name"         validate:"omitempty,max=50"`
	Photo       *string `json:"photo"        validate:"omitempty,max=255"`
	OldPassword *string `json:"old_password" validate:"omitempty,max=50"`
	NewPassword *string `json:"new_password" validate:"omitempty,max=50"`
}

type supportRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

type authResponse struct {
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Photo    *string `json:"photo"`
}

type profileResponse struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Photo    *string `json:"photo"`
}

// resetCode accepts the code as a JSON number or a numeric string, since
// mobile clients send both.
type resetCode int

func (r *resetCode) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("code must be a number")
	}
	*r = resetCode(n)
	return nil
}

func newAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		Token:    res.Token,
		Username: res.User.Username,
		Name:     res.User.Name,
		Photo:    photoRef(res.User.Photo),
	}
}

func newProfileResponse(u *domain.User) profileResponse {
	p := u.Profile()
	return profileResponse{
		Username: p.Username,
		Name:     p.Name,
		Photo:    photoRef(p.Photo),
	}
}

// photoRef renders a missing photo as null.
func photoRef(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp creates a new account and returns a token for it.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Photo:    req.Photo,
	})
	observe("signup", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newAuthResponse(res))
}

// SignIn checks the credentials and returns a fresh token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	observe("signin", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newAuthResponse(res))
}

// SendResetCode issues a password reset code. Phone accounts get the code in
// the response; email accounts get it by mail.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendCodeRequest  true  "Account username"
// @Success      200   {object}  infoResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/send [post]
func (h *AuthHandler) SendResetCode(c echo.Context) error {
	var req sendCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	dispatch, err := h.authService.RequestReset(c.Request().Context(), req.Username)
	observe("request_reset", err)
	if err != nil {
		return err
	}

	info := fmt.Sprintf("confirm code is sent to your email %s", dispatch.Destination)
	if dispatch.Channel == domain.ChannelPhone {
		info = fmt.Sprintf("confirm code is sent to your phone %d", dispatch.Code)
	}
	return c.JSON(http.StatusOK, infoResponse{Info: info})
}

// ResetPassword sets a new password using a previously issued code.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Username, code and new password"
// @Success      200   {object}  infoResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authService.ConfirmReset(c.Request().Context(), req.Username, int(req.Code), req.Password)
	observe("confirm_reset", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, infoResponse{Info: "Password was reset successfully"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

// UserHandler serves the authenticated /user and /support routes.
type UserHandler struct {
	authService    ports.AuthService
	supportService ports.SupportService
}

func NewUserHandler(authService ports.AuthService, supportService ports.SupportService) *UserHandler {
	return &UserHandler{authService: authService, supportService: supportService}
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// Edit updates name and photo, and the password when both old_password and
// new_password are sent.
//
// @Summary      Edit profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /user/edit [patch]
func (h *UserHandler) Edit(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req editProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.EditProfile(c.Request().Context(), user, ports.ProfileUpdate{
		Name:        req.Name,
		Photo:       req.Photo,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	observe("edit_profile", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newProfileResponse(updated))
}

// Support forwards a message to the support mailbox.
//
// @Summary      Contact support
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      supportRequest  true  "Message"
// @Success      200   {object}  infoResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /support [post]
func (h *UserHandler) Support(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req supportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.supportService.Submit(c.Request().Context(), user, req.Text)
	observe("support", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, infoResponse{Info: "sent successfully"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/core/ports"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	users ports.UserService
}

func NewProfileHandler(users ports.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Show handles GET /profile.
//
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  ErrorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Show(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: toUserResponse(user)})
}

// Update handles POST /profile. Only name, email and birth can change.
//
// @Summary      Update current user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New profile values"
// @Success      200   {object}  userEnvelope
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /profile [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	birth, err := parseBirth(req.Birth)
	if err != nil {
		return err
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user, ports.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Birth: birth,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Success: true,
		Message: "profile updated",
		User:    toUserResponse(updated),
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/api/metrics"
	"github.com/userhub/userhub-api/internal/core/ports"
)

// AdminHandler serves the admin-only user management routes. The router
// places it behind Auth and RBAC; the service re-checks the role itself.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers handles GET /admin/users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersEnvelope{Success: true, Users: toUsersResponse(users)})
}

// DeleteUser handles DELETE /admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "user deleted"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/api/middleware"
	"github.com/userhub/userhub-api/internal/core/domain"
)

// InputKey is where handlers leave the bound request so the error handler
// can log it when something unexpected fails.
const InputKey = "request_input"

// currentUser returns the caller injected by the Auth middleware. Its
// absence means the route was wired without Auth, which is reported as
// unauthenticated rather than trusted.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// bindAndValidate binds the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	c.Set(InputKey, req)
	if err := c.Validate(req); err != nil {
		return domain.NewValidationError("%s", err.Error())
	}
	return nil
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/api/metrics"
	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

// RBAC enforces that the authenticated caller holds the required role.
// Without a caller it fails as unauthenticated, never as forbidden.
func RBAC(gate ports.AccessGate, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if err := gate.Authorize(user, required); err != nil {
				metrics.AccessDeniedTotal.WithLabelValues(required.String()).Inc()
				return err
			}
			return next(c)
		}
	}
}

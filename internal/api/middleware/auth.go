package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/api/metrics"
	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

const userKey = "auth_user"

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if authHeader == "" {
		return "", domain.ErrTokenMissing
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrTokenInvalid
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}

// Auth authenticates the bearer token through the gate and stores the caller
// in the context. It must be registered before RBAC.
func Auth(gate ports.AccessGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request())
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			user, err := gate.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				}
				return err
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the caller stored by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	default:
		return "unknown_user"
	}
}

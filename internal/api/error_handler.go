package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/userhub-api/internal/api/handler"
	"github.com/userhub/userhub-api/internal/api/middleware"
	"github.com/userhub/userhub-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status and a stable error kind.
//   - Logs unexpected errors with the request input, credentials masked.
//   - Renders the handler.ErrorResponse envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, kind, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			logUnexpected(log, err, c)
		}
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		resp := handler.ErrorResponse{Success: false, Error: kind, Message: msg}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error) (int, string, string) {
	// Order matters: the token kinds all wrap ErrUnauthenticated.
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token has expired"
	case errors.Is(err, domain.ErrTokenMissing):
		return http.StatusUnauthorized, "token_absent", "token is missing"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "token_invalid", "token is invalid"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusForbidden, "self_deletion_forbidden", "you cannot delete your own account"
	case errors.Is(err, domain.ErrPeerAdminDeletion):
		return http.StatusForbidden, "peer_admin_deletion_forbidden", "an admin cannot delete another admin"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusUnprocessableEntity, "duplicate_email", "email is already registered"
	case errors.Is(err, domain.ErrValidation):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return http.StatusUnprocessableEntity, "validation_error", ve.Reason
		}
		return http.StatusUnprocessableEntity, "validation_error", "invalid input"
	}

	// Echo's own errors (bind failures, unknown routes, rate limiting).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, kindForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, "internal_error", "internal server error"
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	}
	if code >= 500 {
		return "internal_error"
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(code)), " ", "_")
}

// logUnexpected records the real cause; the client only sees a generic message.
func logUnexpected(log zerolog.Logger, err error, c echo.Context) {
	req := c.Request()
	evt := log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("path", c.Path())

	if input := c.Get(handler.InputKey); input != nil {
		if raw, mErr := json.Marshal(input); mErr == nil {
			evt = evt.Str("input", middleware.RedactJSON(raw))
		}
	}
	evt.Msg("unhandled error")
}

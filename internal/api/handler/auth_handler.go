package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/userhub-api/internal/api/metrics"
	"github.com/userhub/userhub-api/internal/api/middleware"
	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	gate        ports.AccessGate
}

func NewAuthHandler(authService ports.AuthService, gate ports.AccessGate) *AuthHandler {
	return &AuthHandler{authService: authService, gate: gate}
}

// Register creates a new user account and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        body   body      registerRequest  true   "Registration details"
// @Param        photo  formData  file             false  "Avatar image (max 2 MiB)"
// @Success      201    {object}  authResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      422    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	birth, err := parseBirth(req.Birth)
	if err != nil {
		return err
	}

	in := ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Birth:    birth,
	}

	if isMultipart(c) {
		fh, err := c.FormFile("photo")
		switch {
		case err == nil:
			f, err := fh.Open()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable photo")
			}
			defer f.Close()
			in.Photo = &ports.PhotoUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
				Content:     f,
			}
		case !errors.Is(err, http.ErrMissingFile):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
		}
	}

	res, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "registration successful",
		Token:   res.Token,
		User:    toUserResponse(res.User),
	})
}

// Login authenticates a user and returns a bearer token. Unknown emails and
// wrong passwords produce the same response.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "login successful",
		Token:   res.Token,
		User:    toUserResponse(res.User),
	})
}

// Logout invalidates the presented token. Logging out an already revoked or
// expired token succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := middleware.BearerToken(c.Request())
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logout successful"})
}

// CheckToken reports whether the presented token is usable, distinguishing
// expired, invalid and absent tokens.
//
// @Summary      Check a bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  ErrorResponse
// @Router       /check-token [get]
func (h *AuthHandler) CheckToken(c echo.Context) error {
	token, err := middleware.BearerToken(c.Request())
	if err != nil {
		return err
	}

	user, err := h.gate.Authenticate(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Success: true,
		Message: "token valid",
		User:    toUserResponse(user),
	})
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/userhub/userhub-api/docs"
	"github.com/userhub/userhub-api/internal/api/handler"
	"github.com/userhub/userhub-api/internal/api/middleware"
	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

// Register requests carry an optional photo of up to 2 MiB.
const bodyLimit = "4M"

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Auth         ports.AuthService
	Users        ports.UserService
	Gate         ports.AccessGate
	HealthChecks []handler.DependencyCheck
	Logger       zerolog.Logger

	// HTTPDebug dumps request and response bodies at debug level.
	HTTPDebug bool
	// Metrics installs the Prometheus middleware and GET /metrics. The
	// collectors register globally, so only one router per process may set it.
	Metrics bool
	// AuthRateLimit caps /login and /register requests per second per client
	// IP. Zero disables the limit.
	AuthRateLimit float64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	if d.HTTPDebug {
		e.Use(middleware.RequestDump(d.Logger))
	}
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("userhub"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	authHandler := handler.NewAuthHandler(d.Auth, d.Gate)
	profileHandler := handler.NewProfileHandler(d.Users)
	adminHandler := handler.NewAdminHandler(d.Users)
	requireAuth := middleware.Auth(d.Gate)

	// --- Public auth routes ---
	var authLimit []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		authLimit = append(authLimit, echomiddleware.RateLimiter(
			echomiddleware.NewRateLimiterMemoryStore(rate.Limit(d.AuthRateLimit)),
		))
	}
	e.POST("/register", authHandler.Register, authLimit...)
	e.POST("/login", authHandler.Login, authLimit...)

	// Logout and check-token read the bearer token themselves so that an
	// expired or revoked token gets a precise answer instead of the gate's.
	e.POST("/logout", authHandler.Logout)
	e.GET("/check-token", authHandler.CheckToken)

	// --- Authenticated routes ---
	e.GET("/profile", profileHandler.Show, requireAuth)
	e.POST("/profile", profileHandler.Update, requireAuth)

	// --- Admin routes: Auth runs first so a bad token is 401, never 403 ---
	admin := e.Group("/admin", requireAuth, middleware.RBAC(d.Gate, domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

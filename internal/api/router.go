package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/formforge/forms-api/docs"
	"github.com/formforge/forms-api/internal/api/handler"
	"github.com/formforge/forms-api/internal/api/middleware"
	"github.com/formforge/forms-api/internal/core/ports"
	"github.com/formforge/forms-api/internal/infrastructure/http/handlers"
)

// DefaultCookieMaxAge is the lifetime of the token cookie.
const DefaultCookieMaxAge = 21 * 24 * time.Hour

// Dependencies is everything NewRouter wires into the HTTP surface.
type Dependencies struct {
	Forms       ports.FormService
	Submissions ports.SubmissionService
	Auth        ports.AuthService
	Gate        ports.Authenticator

	// Limiter throttles /api routes; nil disables rate limiting.
	Limiter middleware.Limiter
	// Health maps dependency names to readiness probes; a nil probe reports
	// the dependency as disabled.
	Health map[string]handlers.Pinger

	Logger        zerolog.Logger
	SecureCookies bool
	CookieMaxAge  time.Duration

	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	if deps.CookieMaxAge <= 0 {
		deps.CookieMaxAge = DefaultCookieMaxAge
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	// Every /api request resolves its caller once; Auth on the protected
	// routes reuses that result and rejects anonymous callers.
	api := e.Group("/api", middleware.OptionalAuth(deps.Gate))
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter, deps.Logger))
	}
	requireAuth := middleware.Auth(deps.Gate)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Gate, handler.CookieOptions{
		Secure: deps.SecureCookies,
		MaxAge: deps.CookieMaxAge,
	}, deps.Logger)
	auth := api.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/logout", authHandler.Logout)
	auth.GET("/verify", authHandler.Verify, requireAuth)

	formHandler := handler.NewFormHandler(deps.Forms)
	api.GET("/forms", formHandler.List)
	api.GET("/forms/:id", formHandler.Get)
	api.POST("/forms", formHandler.Create, requireAuth)
	api.PUT("/forms/:id", formHandler.Update, requireAuth)
	api.DELETE("/forms/:id", formHandler.Delete, requireAuth)

	submissionHandler := handler.NewSubmissionHandler(deps.Submissions)
	api.POST("/submissions", submissionHandler.Create)
	api.GET("/submissions", submissionHandler.List)

	return e
}

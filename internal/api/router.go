package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/photogram/internal/api/handler"
	"github.com/sirpyerre/photogram/internal/api/middleware"
	"github.com/sirpyerre/photogram/internal/api/views"
	"github.com/sirpyerre/photogram/internal/core/router"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth      handler.SessionAuth
	Signup    handler.SignupService
	Profiles  handler.ProfileFinder
	Feed      handler.FeedLoader
	Instances middleware.InstanceSource
	Client    middleware.ClientConfig
	Checks    map[string]handler.Check
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = views.NewRenderer()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	// --- Probes and metrics (no client cookie) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Pages ---
	client := middleware.Client(d.Client, d.Instances)
	sessions := handler.NewSessionHandler(d.Auth)
	signup := handler.NewSignupHandler(d.Signup)
	pages := handler.NewViewHandler(d.Profiles, d.Feed)

	e.POST(router.Login, sessions.Login, client)
	e.POST(router.Logout, sessions.Logout, client)
	e.POST(router.SignUp, signup.Submit, client)

	// Page paths that also take a POST are listed so GET never hits a 405.
	e.GET(router.Login, pages.Show, client)
	e.GET(router.SignUp, pages.Show, client)
	e.GET(router.Logout, pages.Show, client)
	e.GET("/*", pages.Show, client)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

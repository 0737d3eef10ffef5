package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dkv3/class-site/internal/api/handler"
	"github.com/dkv3/class-site/internal/api/middleware"
	"github.com/dkv3/class-site/internal/api/view"
	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
	"github.com/dkv3/class-site/internal/infrastructure/http/handlers"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Auth         ports.AuthService
	Album        ports.AlbumService
	Log          zerolog.Logger
	ClientSecret string
	Development  bool

	// AlbumDir is served as static files under AlbumPublicPath.
	AlbumDir        string
	AlbumPublicPath string

	// Health lists the backends pinged by /health/ready.
	Health map[string]ports.Pinger

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Renderer = renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "dkv3",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if deps.AlbumDir != "" && deps.AlbumPublicPath != "" {
		e.Static(deps.AlbumPublicPath, deps.AlbumDir)
	}

	// --- Site ---
	site := e.Group("",
		middleware.Client(deps.ClientSecret, !deps.Development),
		middleware.Session(deps.Auth, deps.Log),
	)
	requireLogin := middleware.RequireLogin(deps.Auth, deps.Log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Auth)
	albumHandler := handler.NewAlbumHandler(deps.Album)

	site.GET("/", homeHandler.Page)
	site.POST("/login", authHandler.LoginForm)
	site.POST("/logout", authHandler.LogoutForm)
	site.GET("/album", albumHandler.Page, requireLogin)

	apiGroup := site.Group("/api")

	auth := apiGroup.Group("/auth")
	auth.GET("/me", authHandler.Me)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/logout", authHandler.Logout, requireLogin)

	users := apiGroup.Group("/users", requireLogin, adminOnly)
	users.GET("", userHandler.List)
	users.PATCH("/:username/role", userHandler.FixRole)

	album := apiGroup.Group("/album", requireLogin)
	album.GET("", albumHandler.List)
	album.POST("/links", albumHandler.AddLink, adminOnly)

	if deps.Development {
		apiGroup.GET("/debug", userHandler.Debug, requireLogin, adminOnly)
	}

	return e, nil
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("http_request")
			return nil
		},
	})
}

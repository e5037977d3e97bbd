package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/99minutos/auth-api/docs"
	"github.com/99minutos/auth-api/internal/api/handler"
	"github.com/99minutos/auth-api/internal/api/middleware"
	"github.com/99minutos/auth-api/internal/core/service"
	mongorepo "github.com/99minutos/auth-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/99minutos/auth-api/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-api/internal/infrastructure/security"
	"github.com/99minutos/auth-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, in which case reset tokens are not tracked.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddleware("auth_api"))

	// --- Dependencies ---
	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	svcCfg := service.Config{
		SessionTTL:    cfg.Auth.TokenTTL,
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
	}
	if rdb != nil {
		svcCfg.Ledger = redisrepo.NewResetTokenLedger(rdb)
	}

	authRepo := mongorepo.NewUserRepository(db)
	authService := service.NewAuthService(
		authRepo,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		svcCfg,
		log.With().Str("component", "auth_service").Logger(),
	)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.GET("/validate", authHandler.Validate, authMiddleware)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

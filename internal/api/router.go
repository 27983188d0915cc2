package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/userhub/accounts-api/docs"
	"github.com/userhub/accounts-api/internal/api/handler"
	"github.com/userhub/accounts-api/internal/api/middleware"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/service"
	"github.com/userhub/accounts-api/internal/infrastructure/auth"
	mongorepo "github.com/userhub/accounts-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/userhub/accounts-api/internal/infrastructure/db/redis"
	"github.com/userhub/accounts-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	signer := auth.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, hasher, signer, log)
	throttle := redisinfra.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)

	authHandler := handler.NewAuthHandler(userService, throttle)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	// List, create and delete are admin-gated at the transport layer; the
	// service-level policy only gates role changes.
	users := e.Group("/v1/users", authMiddleware)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PUT("/:id/password", userHandler.ChangePassword)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

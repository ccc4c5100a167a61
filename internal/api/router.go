package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/user-api/internal/api/handler"
	"github.com/userhub/user-api/internal/api/middleware"
	"github.com/userhub/user-api/internal/core/service"
	"github.com/userhub/user-api/internal/core/token"
	mongodb "github.com/userhub/user-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/user-api/internal/infrastructure/db/redis"
	"github.com/userhub/user-api/internal/infrastructure/http/handlers"
	"github.com/userhub/user-api/internal/pkg/config"
)

const requestTimeout = 30 * time.Second

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.ContextTimeout(requestTimeout))
	e.Use(echoprometheus.NewMiddleware("userapi"))

	// --- Dependencies ---
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := mongodb.NewUserRepository(db)
	userCache := redisdb.NewUserCache(rdb)
	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo, userCache, cfg.BcryptCost, log)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// --- API routes ---
	apiGroup := e.Group("/api")

	apiGroup.POST("/auth/signup", authHandler.Signup)
	apiGroup.POST("/auth/login", authHandler.Login)

	users := apiGroup.Group("/users", middleware.Auth(tokens))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, middleware.RequireAdmin())

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/api-docs/*", echoswagger.WrapHandler)

	return e
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sapaudit/auth-service/internal/api/handler"
	"github.com/sapaudit/auth-service/internal/api/middleware"
	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
	"github.com/sapaudit/auth-service/internal/core/security"
	"github.com/sapaudit/auth-service/internal/core/service"
	"github.com/sapaudit/auth-service/internal/infrastructure/config"
	mongodb "github.com/sapaudit/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/sapaudit/auth-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, codec *security.TokenCodec, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	catalog := mongodb.NewRoleRepository(db)
	resolver := service.NewRoleResolver(catalog)

	authService := service.NewAuthService(users, resolver, codec).WithAudit(audit)
	if rdb != nil {
		authService.WithThrottle(redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window))
	}
	userService := service.NewUserService(users, resolver).WithAudit(audit)

	authHandler := handler.NewAuthHandler(authService, codec)
	userHandler := handler.NewUserHandler(userService)
	authRequired := middleware.Auth(codec, users, cfg.JWT.HeaderName, cfg.JWT.HeaderPrefix)

	// --- Auth routes (no token required) ---
	e.POST("/api/auth/signin", authHandler.Signin)
	e.POST("/api/auth/signup", authHandler.Signup)
	e.POST("/api/auth/validate-token", authHandler.ValidateToken)

	// --- User management (token required; fine-grained rules live in the
	// handlers' authorization predicate) ---
	usersGroup := e.Group("/api/users", authRequired)
	usersGroup.GET("/me", userHandler.Me)
	usersGroup.GET("", userHandler.List, middleware.RequireRoles(domain.RoleAdmin))
	usersGroup.POST("", userHandler.Create, middleware.RequireRoles(domain.RoleAdmin))
	usersGroup.GET("/:id", userHandler.Get)
	usersGroup.PUT("/:id", userHandler.Update)
	usersGroup.DELETE("/:id", userHandler.Delete, middleware.RequireRoles(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

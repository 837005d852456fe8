package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/customer-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
	"github.com/jsamuelsen/customer-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds the handlers and settings the router wires together.
// A nil handler leaves its routes unregistered.
type RouterConfig struct {
	ServiceName string
	AuthConfig  *config.AuthConfig
	Timeout     time.Duration

	HealthHandler   *handlers.HealthHandler
	CustomerHandler *handlers.CustomerHandler
	UserHandler     *handlers.UserHandler
	RoleHandler     *handlers.RoleHandler
	AdminHandler    *handlers.AdminHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry span and request metrics
//  4. Request logging (skips /-/)
//  5. Request-scoped lookup memo and timeout, on /api/v1 only
//
// /-/ holds the unauthenticated operational endpoints. /api/v1 routes check
// the gateway-forwarded scopes when auth is enabled: reads need
// customers:read, writes customers:write, admin routes customers:admin.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(middleware.Recovery(), middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.RequestScope())

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	read := middleware.Guard(cfg.AuthConfig, middleware.ScopeRead)
	write := middleware.Guard(cfg.AuthConfig, middleware.ScopeWrite)

	if cfg.CustomerHandler != nil {
		cfg.CustomerHandler.RegisterCustomerRoutes(rg, read, write)
	}

	if cfg.UserHandler != nil {
		cfg.UserHandler.RegisterUserRoutes(rg, read, write)
	}

	if cfg.RoleHandler != nil {
		cfg.RoleHandler.RegisterRoleRoutes(rg, read, write)
	}

	if cfg.AdminHandler != nil {
		cfg.AdminHandler.RegisterAdminRoutes(rg, middleware.Guard(cfg.AuthConfig, middleware.ScopeAdmin))
	}
}

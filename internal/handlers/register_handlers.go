package handlers

import (
	"net/http"

	"github.com/SscSPs/expense_tracker/cmd/docs"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/SscSPs/expense_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Categorization touches no user data and stays public.
	registerCategorizeRoutes(&r.RouterGroup, services.Categorizer)

	setupUserRoutes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupUserRoutes registers the user-scoped routes, behind AuthMiddleware when
// authentication is required.
func setupUserRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	var handlers []gin.HandlerFunc
	if cfg.AuthRequired {
		handlers = append(handlers, middleware.AuthMiddleware(cfg.JWTSecret))
	}
	user := r.Group("/", handlers...)

	registerLedgerRoutes(user, services.Ledger)
	registerAccountRoutes(user, services.Account)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

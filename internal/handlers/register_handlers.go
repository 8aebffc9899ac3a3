package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hihello1226/our-ledger/cmd/docs"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/middleware"
	"github.com/hihello1226/our-ledger/internal/platform/config"
)

const fallbackUploadRate = "30-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(cors.New(corsConfig(cfg)))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// every v1 route acts on behalf of the caller's household
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RequireHousehold(service.Household),
	)

	RegisterEntryRoutes(v1, service.Entry)
	RegisterReportingRoutes(v1, service.Summary, service.Settlement)
	RegisterTaxonomyRoutes(v1, service.Taxonomy)
	RegisterImportRoutes(v1, service.Import, cfg.ImportMaxFileBytes, uploadRateLimit(cfg))
	RegisterExternalSourceRoutes(v1, service.ExternalSource)
}

func uploadRateLimit(cfg *config.Config) gin.HandlerFunc {
	limiter, err := middleware.NewMemoryLimiter(cfg.ImportRateLimit)
	if err != nil {
		slog.Warn("Invalid IMPORT_RATE_LIMIT, using default",
			slog.String("value", cfg.ImportRateLimit),
			slog.String("default", fallbackUploadRate),
			slog.String("error", err.Error()))
		limiter, _ = middleware.NewMemoryLimiter(fallbackUploadRate)
	}
	return middleware.RateLimit(limiter)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 {
		// cors refuses credentials together with a wildcard origin
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

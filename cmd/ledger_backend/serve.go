package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/hihello1226/our-ledger/internal/adapters/cache"
	"github.com/hihello1226/our-ledger/internal/adapters/events"
	"github.com/hihello1226/our-ledger/internal/adapters/sheets"
	"github.com/hihello1226/our-ledger/internal/core/ports"
	"github.com/hihello1226/our-ledger/internal/core/services"
	"github.com/hihello1226/our-ledger/internal/handlers"
	"github.com/hihello1226/our-ledger/internal/middleware"
	"github.com/hihello1226/our-ledger/internal/platform/config"
	"github.com/hihello1226/our-ledger/internal/repositories/database/pgsql"
	"github.com/hihello1226/our-ledger/pkg/database"
)

const maxCacheCleanupInterval = 5 * time.Minute

var cmdServe = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API",
	Action: runServe,
}

func runServe(ctx context.Context, _ *cli.Command) error {
	logger := slog.Default()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("Configuration loaded")

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := runMigrationsUp(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database connection pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)

	uploads := cache.NewUploadCache(cfg.ImportCacheSize, cfg.ImportCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(uploads)
	cacheManager.StartCleanup(min(cfg.ImportCacheTTL, maxCacheCleanupInterval))
	defer cacheManager.Stop()

	gateways := services.Gateways{Cache: uploads}

	if cfg.SheetsEnabled() {
		gateway, err := sheets.NewGoogleGateway(ctx, cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile, logger)
		if err != nil {
			// sync endpoints answer 503 without a gateway
			logger.Error("Google Sheets gateway unavailable", slog.String("error", err.Error()))
		} else {
			gateways.Sheets = gateway
		}
	}

	gateways.Events, err = eventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := gateways.Events.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, gateways)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Warn("Failed to reset trusted proxies", slog.String("error", err.Error()))
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Starting server", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// eventPublisher connects to the broker when one is configured.
func eventPublisher(cfg *config.Config, logger *slog.Logger) (ports.EventPublisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, ledger events will not be published")
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	return publisher, nil
}

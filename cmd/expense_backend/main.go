package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/SscSPs/expense_tracker/internal/categorizer"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/core/services"
	"github.com/SscSPs/expense_tracker/internal/events"
	"github.com/SscSPs/expense_tracker/internal/handlers"
	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/SscSPs/expense_tracker/internal/platform/config"
	"github.com/SscSPs/expense_tracker/internal/repositories/cache"
	"github.com/SscSPs/expense_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/expense_tracker/internal/repositories/memory"
	"github.com/SscSPs/expense_tracker/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Expense Tracker API
// @version 1.0
// @description Expense ledger with per-user account aggregates and automatic categorization.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openLedgerStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	repos := portsrepo.RepositoryProvider{Ledger: store}
	if redisClient := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); redisClient != nil {
		defer redisClient.Close()
		repos.ProfileCache = cache.NewRedisProfileCache(redisClient, cfg.ProfileCacheTTL)
		logger.Info("Profile cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	publisher, closePublisher := openPublisher(cfg, logger)
	defer closePublisher()

	cat, err := newCategorizer(cfg, logger)
	if err != nil {
		logger.Error("Failed to load categorizer model", slog.String("path", cfg.CategorizerModelPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(repos, cat, publisher)

	r, err := newRouter(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up router", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// openLedgerStore connects the configured storage backend, running migrations
// first when they apply. The returned func releases the connection.
func openLedgerStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.UnitOfWork, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if cfg.RunMigrations {
			if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewStore(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.StoreSQLite:
		if cfg.RunMigrations {
			if err := sqlite.RunMigrations(cfg.SQLitePath); err != nil {
				return nil, nil, err
			}
			logger.Info("SQLite migrations applied", slog.String("path", cfg.SQLitePath))
		}
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStore(db), func() { database.CloseSQLiteDB(db) }, nil

	default:
		logger.Warn("Using in-memory ledger store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}

// openPublisher returns the AMQP publisher when a broker is configured and a
// logging publisher otherwise.
func openPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.LedgerEventPublisher, func()) {
	if cfg.AMQPURL == "" {
		return events.LogPublisher{}, func() {}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("AMQP unavailable, ledger events will only be logged", slog.String("error", err.Error()))
		return events.LogPublisher{}, func() {}
	}
	logger.Info("Publishing ledger events", slog.String("exchange", cfg.AMQPExchange))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing AMQP publisher", slog.String("error", err.Error()))
		}
	}
}

func newCategorizer(cfg *config.Config, logger *slog.Logger) (*categorizer.Categorizer, error) {
	if cfg.CategorizerModelPath == "" {
		logger.Info("No categorizer model configured, using keyword rules only")
		return categorizer.New(), nil
	}
	model, err := categorizer.LoadBayesClassifier(cfg.CategorizerModelPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Categorizer model loaded", slog.String("path", cfg.CategorizerModelPath))
	return categorizer.New(categorizer.WithClassifier(model)), nil
}

func newRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsCfg))

	if cfg.RateLimit != "" {
		lim, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(middleware.RateLimit(lim))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	return r, nil
}

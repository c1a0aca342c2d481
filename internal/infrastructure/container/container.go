// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/platemuse/v1/internal/application/accounts"
	"github.com/platemuse/v1/internal/application/planning"
	"github.com/platemuse/v1/internal/infrastructure/ai/gemini"
	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/internal/infrastructure/http/server"
	"github.com/platemuse/v1/internal/infrastructure/payment/stripe"
	gormRepo "github.com/platemuse/v1/internal/infrastructure/persistence/gorm"
	"github.com/platemuse/v1/internal/infrastructure/persistence/memory"
	"github.com/platemuse/v1/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/platemuse/v1/internal/infrastructure/persistence/redis"
	"github.com/platemuse/v1/internal/infrastructure/persistence/sqlite"
	"github.com/platemuse/v1/internal/infrastructure/security"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
	func(log *zap.Logger) *zap.SugaredLogger {
		return log.Sugar()
	},
)

// DatabaseModule provides the database connection, PostgreSQL or
// embedded SQLite depending on configuration
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		if cfg.Database.Driver == "postgres" {
			db, err := postgres.SetupDatabase(cfg.GetDSN(), logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup PostgreSQL database: %w", err)
			}
			log.Info("Connected to PostgreSQL database",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Database),
			)
			return db, nil
		}

		dbPath := ":memory:"
		if cfg.Database.Database != "" {
			dbPath = cfg.Database.Database + ".db"
		}

		db, err := sqlite.SetupDatabase(dbPath, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		if cfg.Database.SeedDemoData {
			if err := sqlite.SeedDatabase(db); err != nil {
				log.Warn("Failed to seed database", zap.Error(err))
			}
		}

		log.Info("Connected to SQLite database",
			zap.String("path", dbPath),
			zap.Bool("in_memory", dbPath == ":memory:"),
		)

		return db, nil
	},
)

// CacheModule provides caching, Redis when enabled and in-memory otherwise
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.Redis.Enable {
			client, err := redisRepo.NewClient(cfg.Redis)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			log.Info("Connected to Redis cache",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
			return redisRepo.NewCacheRepository(client, log), nil
		}

		log.Info("Using in-memory cache")
		return memory.NewCacheRepository(), nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewFamilyProfileRepository,
	gormRepo.NewMealHistoryRepository,
	gormRepo.NewMealPlanRepository,
	gormRepo.NewShoppingListRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// AI text generator
	func(cfg *config.Config, log *zap.Logger) outbound.TextGenerator {
		return gemini.NewClient(cfg.AI, log)
	},

	// Payment provider
	func(cfg *config.Config, log *zap.Logger) outbound.PaymentService {
		return stripe.NewService(cfg.Stripe, log)
	},

	security.NewAuthService,

	// Planning service
	func(
		generator outbound.TextGenerator,
		cache outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.PlanningService {
		models := planning.DefaultModels()
		if cfg.AI.FlashModel != "" {
			models.Flash = cfg.AI.FlashModel
		}
		if cfg.AI.ProModel != "" {
			models.Pro = cfg.AI.ProModel
		}

		opts := []planning.ServiceOption{planning.WithModels(models)}
		if cfg.AI.EnableCache {
			opts = append(opts, planning.WithCache(cache, cfg.AI.CacheTTL))
		}

		return planning.NewService(generator, log, opts...)
	},

	// Accounts service
	fx.Annotate(
		accounts.NewService,
		fx.As(new(inbound.AccountService)),
	),
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PlateMuse application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PlateMuse application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}

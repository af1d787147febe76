package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/accessory"
	accessoryPostgres "github.com/frahmantamala/asset-management/internal/accessory/postgres"
	"github.com/frahmantamala/asset-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/asset-management/internal/assignment/postgres"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/dashboard"
	"github.com/frahmantamala/asset-management/internal/document"
	documentPostgres "github.com/frahmantamala/asset-management/internal/document/postgres"
	"github.com/frahmantamala/asset-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/asset-management/internal/equipment/postgres"
	"github.com/frahmantamala/asset-management/internal/report"
	"github.com/frahmantamala/asset-management/internal/snapshot"
	"github.com/frahmantamala/asset-management/internal/user"
	userPostgres "github.com/frahmantamala/asset-management/internal/user/postgres"
	"github.com/frahmantamala/asset-management/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App holds the shared connections and services every command builds on.
type App struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Redis  *redis.Client
	Bus    *events.EventBus
	Logger *slog.Logger

	EquipmentRepo equipment.RepositoryAPI
	UserRepo      user.RepositoryAPI

	Equipment  *equipment.Service
	Assignment *assignment.Service
	User       *user.Service
	Accessory  *accessory.Service
	Document   *document.Service
	Dashboard  *dashboard.Service
	Reports    *report.Service
}

func newApp(configPath string) (*App, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	app := &App{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}

	var cache dashboard.Cache = dashboard.NopCache{}
	if config.Cache.RedisAddr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     config.Cache.RedisAddr,
			Password: config.Cache.RedisPassword,
			DB:       config.Cache.RedisDB,
		})
		cache = dashboard.NewRedisCache(app.Redis, config.Cache.TTL)
		lg.Info("dashboard cache enabled", "redis_addr", config.Cache.RedisAddr, "ttl", config.Cache.TTL)
	}

	store, err := document.NewLocalStorage(config.Uploads.Dir, config.Uploads.PublicPath, config.Uploads.MaxBytes())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to prepare upload storage: %w", err)
	}

	app.EquipmentRepo = equipmentPostgres.NewEquipmentRepository(gormDB)
	app.UserRepo = userPostgres.NewUserRepository(gormDB)

	app.Equipment = equipment.NewService(app.EquipmentRepo, app.Bus, lg)
	app.Assignment = assignment.NewService(assignmentPostgres.NewAssignmentRepository(gormDB), app.Bus, lg)
	app.User = user.NewService(app.UserRepo, app.Bus, lg)
	app.Accessory = accessory.NewService(accessoryPostgres.NewAccessoryRepository(gormDB), app.Bus, lg)
	app.Document = document.NewService(documentPostgres.NewDocumentRepository(gormDB), store, app.Bus, lg)

	loader := snapshot.NewSnapshotRepository(db)
	app.Dashboard = dashboard.NewService(loader, cache, lg)
	app.Dashboard.Subscribe(app.Bus)
	app.Reports = report.NewService(loader, lg)

	return app, nil
}

// Close waits for in-flight event handlers, then releases connections.
func (a *App) Close() {
	a.Bus.Wait()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", "error", err)
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.PingContext(context.Background()); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/migrations"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase opens the single connection pool shared by every handler.
func OpenDatabase(cfg *Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, NowFunc: NowUTC})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := cfg.DBMaxOpenConns
	if cfg.DBDriver == DriverSQLite {
		// SQLite has a single writer.
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := Migrate(db, cfg.DBDriver); err != nil {
			return nil, err
		}
		log.Infow("Database schema up to date", "driver", cfg.DBDriver)
	}
	return db, nil
}

// Migrate brings the schema up to date. Postgres is owned by the SQL
// migrations; SQLite is built from the models.
func Migrate(db *gorm.DB, driver string) error {
	if driver == DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return migrations.Up(sqlDB)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NowUTC stamps rows in UTC so time comparisons agree across drivers.
func NowUTC() time.Time {
	return time.Now().UTC()
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

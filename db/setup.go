package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitrina-dev/vitrina/internal/config"
	"github.com/vitrina-dev/vitrina/internal/models"
)

// ConnectDatabase opens the configured database and sizes its pool.
// Constraint violations are translated to gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated for every driver.
func ConnectDatabase(cfg config.DatabaseConfig, logger gormlogger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.URL)
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	if logger == nil {
		logger = gormlogger.Discard
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger,
		TranslateError: true,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := database.DB()

	if err != nil {
		return nil, err
	}

	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns

	// SQLite allows a single writer; one connection avoids lock errors
	// between concurrent transactions.
	if cfg.Driver == "sqlite" {
		maxOpen, maxIdle = 1, 1
	}

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return database, nil
}

// MigrateDatabase creates or updates the tables of every model.
func MigrateDatabase(database *gorm.DB) error {
	for _, model := range models.All() {
		if err := database.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// Ping checks that the database answers within timeout.
func Ping(ctx context.Context, database *gorm.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := database.DB()

	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

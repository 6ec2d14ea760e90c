package db

import (
	"fmt"

	"github.com/fairdirect/foodrescue-content/config"
	appLogger "github.com/fairdirect/foodrescue-content/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the content store. SQLite is the default target (the
// store ships inside the mobile app); Postgres is supported for server-side
// use of the same schema. The handle is passed explicitly to repositories,
// never held as package state.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Silent), // we log through our own logger
		CreateBatchSize: cfg.Import.BatchSize,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite", "":
		appLogger.Info("Opening SQLite store", map[string]interface{}{
			"path": cfg.Database.Path,
		})
		db, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormConfig)
	case "postgres":
		appLogger.Info("Connecting to Postgres store", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.DBName,
			"user":     cfg.Database.User,
		})
		db, err = gorm.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnableBulkMode relaxes durability for a long bulk import. The store is
// fully rebuildable from its source inputs, so losing it on a crash only
// costs a re-run. No-op for non-SQLite backends.
func EnableBulkMode(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	if err := db.Exec("PRAGMA synchronous = OFF").Error; err != nil {
		return fmt.Errorf("failed to relax synchronous mode: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode = MEMORY").Error; err != nil {
		return fmt.Errorf("failed to relax journal mode: %w", err)
	}
	appLogger.Debug("Bulk import mode enabled (durability relaxed)")
	return nil
}

// RestoreDurability reverts EnableBulkMode.
func RestoreDurability(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	if err := db.Exec("PRAGMA synchronous = FULL").Error; err != nil {
		return fmt.Errorf("failed to restore synchronous mode: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode = DELETE").Error; err != nil {
		return fmt.Errorf("failed to restore journal mode: %w", err)
	}
	appLogger.Debug("Durability restored after bulk import")
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/fairdirect/foodrescue-content/config"
	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	"github.com/fairdirect/foodrescue-content/internal/db"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type rootOptions struct {
	dbPath     string
	keepTables bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "frc",
		Short:         "Build the Food Rescue App content database from its source datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path of the SQLite content database (default from FRC_DB_PATH)")
	cmd.PersistentFlags().BoolVar(&opts.keepTables, "keep-tables", false, "reuse an existing database instead of rebuilding it from scratch")

	cmd.AddCommand(
		newImportCategoriesCmd(&opts),
		newImportProductsCmd(&opts),
		newImportTopicsCmd(&opts),
		newExportCSVCmd(&opts),
		newExportDocBookCmd(&opts),
	)

	return cmd
}

// stores bundles the repositories sharing one run's database handle and
// warning counter.
type stores struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	topics     repository.TopicRepository
	warnings   *apperrors.WarningCounter
}

// withStore loads the configuration, opens the content store, migrates the
// schema and runs fn. The handle is closed on every exit path. Without
// --keep-tables an existing SQLite store is removed first; the store is
// fully rebuildable from its sources, so a fresh build is the default.
func withStore(opts *rootOptions, fn func(gdb *gorm.DB, s *stores) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}

	if !opts.keepTables && cfg.Database.Driver == "sqlite" {
		if err := os.Remove(cfg.Database.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(gdb); closeErr != nil {
			logger.Error("Failed to close database", closeErr)
		}
	}()

	if err := db.Migrate(gdb); err != nil {
		return err
	}

	warnings := &apperrors.WarningCounter{}
	categories := repository.NewCategoryRepository(gdb, warnings)
	s := &stores{
		categories: categories,
		products:   repository.NewProductRepository(gdb, categories, warnings),
		topics:     repository.NewTopicRepository(gdb, categories, warnings),
		warnings:   warnings,
	}

	return fn(gdb, s)
}

package db

import (
	"github.com/fairdirect/foodrescue-content/internal/app/model"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates or updates the content-store schema. Migration is purely
// additive (AutoMigrate never drops), so pipeline stages can be re-run
// against an existing store without losing prior data.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Category{},
		&model.CategoryName{},
		&model.CategoryStructure{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Country{},
		&model.ProductCountry{},
		&model.Topic{},
		&model.TopicCategory{},
		&model.Literature{},
		&model.TopicLiterature{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

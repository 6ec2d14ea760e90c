package main

import (
	"fmt"
	"os"

	"github.com/fairdirect/foodrescue-content/internal/app/service"
	"github.com/fairdirect/foodrescue-content/internal/db"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newImportProductsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-products <products.csv>",
		Short: "Import products and their category assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(gdb *gorm.DB, s *stores) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open products file: %w", err)
				}
				defer f.Close()

				if err := db.EnableBulkMode(gdb); err != nil {
					return err
				}
				defer func() {
					if err := db.RestoreDurability(gdb); err != nil {
						logger.Error("Failed to restore durability", err)
					}
				}()

				importer := service.NewProductImportService(s.products, s.warnings)
				stats, err := importer.ImportCSV(f)
				if err != nil {
					return err
				}

				fmt.Printf("Imported %d products (%d tag-form references skipped, %d warnings)\n",
					stats.Products, stats.TagFormSkipped, stats.Warnings)
				return nil
			})
		},
	}
}

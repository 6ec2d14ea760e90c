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

func newImportCategoriesCmd(opts *rootOptions) *cobra.Command {
	var countsPath string

	cmd := &cobra.Command{
		Use:   "import-categories <categories.txt>",
		Short: "Import the category taxonomy into the content database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(gdb *gorm.DB, s *stores) error {
				if err := db.EnableBulkMode(gdb); err != nil {
					return err
				}
				defer func() {
					if err := db.RestoreDurability(gdb); err != nil {
						logger.Error("Failed to restore durability", err)
					}
				}()

				importer := service.NewTaxonomyImportService(s.categories, s.warnings)
				stats, err := importer.ImportFile(args[0])
				if err != nil {
					return err
				}

				if countsPath != "" {
					f, err := os.Open(countsPath)
					if err != nil {
						return fmt.Errorf("failed to open counts file: %w", err)
					}
					defer f.Close()
					if _, err := importer.ImportCountsCSV(f); err != nil {
						return err
					}
				}

				fmt.Printf("Imported %d categories from %d blocks (%d warnings)\n",
					stats.Categories, stats.Blocks, stats.Warnings)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&countsPath, "counts", "", "CSV file with per-category product usage counts (name,count)")
	return cmd
}

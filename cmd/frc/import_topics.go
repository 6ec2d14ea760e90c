package main

import (
	"fmt"

	"github.com/fairdirect/foodrescue-content/internal/app/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newImportTopicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-topics <topics.xlsx>",
		Short: "Import advisory topics from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(gdb *gorm.DB, s *stores) error {
				importer := service.NewTopicImportService(s.topics, s.warnings)
				stats, err := importer.ImportXLSX(args[0])
				if err != nil {
					return err
				}

				fmt.Printf("Imported %d topics (%d rows skipped, %d warnings)\n",
					stats.Topics, stats.Skipped, stats.Warnings)
				return nil
			})
		},
	}
}

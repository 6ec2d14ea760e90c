package main

import (
	"fmt"
	"os"

	"github.com/fairdirect/foodrescue-content/internal/app/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newExportCSVCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export categories and their hierarchy as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(gdb *gorm.DB, s *stores) error {
				out := os.Stdout
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("failed to create output file: %w", err)
					}
					defer f.Close()
					out = f
				}

				exporter := service.NewCategoryExportService(s.categories)
				count, err := exporter.ExportCSV(out)
				if err != nil {
					return err
				}

				fmt.Fprintf(os.Stderr, "Exported %d categories\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}

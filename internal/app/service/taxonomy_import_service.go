package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/internal/taxonomy"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
)

// TaxonomyStats summarizes one taxonomy import run.
type TaxonomyStats struct {
	Blocks     int
	Categories int
	Warnings   int
}

type TaxonomyImportService interface {
	ImportFile(path string) (TaxonomyStats, error)
	Import(text string) (TaxonomyStats, error)

	// ImportCountsCSV applies per-category product usage counts from a
	// two-column CSV (name, count). Unknown categories are skipped with
	// a warning.
	ImportCountsCSV(r io.Reader) (int, error)
}

type taxonomyImportService struct {
	categories repository.CategoryRepository
	warnings   *apperrors.WarningCounter
}

func NewTaxonomyImportService(categories repository.CategoryRepository, warnings *apperrors.WarningCounter) TaxonomyImportService {
	return &taxonomyImportService{categories: categories, warnings: warnings}
}

func (s *taxonomyImportService) ImportFile(path string) (TaxonomyStats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TaxonomyStats{}, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	return s.Import(string(raw))
}

// Import runs fixups, parses, normalizes, and loads the taxonomy in two
// passes: first every category, then every parent edge. Parent references
// may point forward to categories later in the file, so edges cannot be
// linked until all categories exist.
func (s *taxonomyImportService) Import(text string) (TaxonomyStats, error) {
	stats := TaxonomyStats{}
	before := s.warnings.Count()

	blocks, err := taxonomy.Parse(taxonomy.ApplyFixups(text))
	if err != nil {
		return stats, err
	}
	blocks = taxonomy.Normalize(blocks)
	stats.Blocks = len(blocks)

	// Pass 1: categories and names.
	for _, b := range blocks {
		block, ok := b.(taxonomy.CategoryBlock)
		if !ok {
			continue
		}
		category, err := s.categories.AddCategory(block)
		if err != nil {
			return stats, err
		}
		if category != nil {
			stats.Categories++
		}
	}

	// Pass 2: hierarchy edges.
	for _, b := range blocks {
		block, ok := b.(taxonomy.CategoryBlock)
		if !ok {
			continue
		}
		if len(block.Parents) == 0 {
			continue
		}
		if err := s.categories.AddCategoryParents(block); err != nil {
			return stats, err
		}
	}

	stats.Warnings = s.warnings.Count() - before

	logger.Info("Taxonomy import finished", map[string]interface{}{
		"blocks":     stats.Blocks,
		"categories": stats.Categories,
		"warnings":   stats.Warnings,
	})
	return stats, nil
}

func (s *taxonomyImportService) ImportCountsCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	applied := 0
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return applied, fmt.Errorf("failed to read counts CSV: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue // header
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		count, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			logger.Warn("Unparsable product count, skipping", map[string]interface{}{
				"name":  name,
				"value": row[1],
			})
			s.warnings.Add(1)
			continue
		}

		if err := s.categories.SetProductCount(name, count); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

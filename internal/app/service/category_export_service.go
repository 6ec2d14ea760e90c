package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
)

type CategoryExportService interface {
	// ExportCSV writes one row per category: id, canonical name and its
	// language, upstream product count, and space-separated parent ids.
	ExportCSV(w io.Writer) (int, error)
}

type categoryExportService struct {
	categories repository.CategoryRepository
}

func NewCategoryExportService(categories repository.CategoryRepository) CategoryExportService {
	return &categoryExportService{categories: categories}
}

func (s *categoryExportService) ExportCSV(w io.Writer) (int, error) {
	rows, err := s.categories.ExportRows()
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "lang", "product_count", "parent_ids"}); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		count := ""
		if row.ProductCount != nil {
			count = strconv.FormatInt(*row.ProductCount, 10)
		}
		parents := make([]string, 0, len(row.ParentIDs))
		for _, id := range row.ParentIDs {
			parents = append(parents, strconv.FormatUint(uint64(id), 10))
		}
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Name,
			row.Lang,
			count,
			strings.Join(parents, " "),
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}

	logger.Info("Category CSV export finished", map[string]interface{}{
		"categories": len(rows),
	})
	return len(rows), nil
}

package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
)

// tagFormRe matches normalized tag-form category references like
// `fr:pates-a-tartiner`: a 2-letter language prefix and an all-lowercase
// hyphenated token. Tag-form names are machine identifiers, not display
// names; importing them literally would create duplicate categories next
// to the display-form names, so they are dropped with a warning.
var tagFormRe = regexp.MustCompile(`^[a-z]{2}:[a-z0-9]+(?:-[a-z0-9]+)*$`)

// langPrefixRe matches an explicit language prefix on a display-form
// category cell, e.g. `fr:Pommes`.
var langPrefixRe = regexp.MustCompile(`^([a-z]{2,3}(?:-[A-Z]{2})?):(.+)$`)

// ProductStats summarizes one product import run.
type ProductStats struct {
	Products       int
	TagFormSkipped int
	Warnings       int
}

type ProductImportService interface {
	// ImportCSV reads header-named rows (code, categories, countries)
	// and inserts one product per row. A malformed product code is
	// fatal; everything that affects only a single association is a
	// warning.
	ImportCSV(r io.Reader) (ProductStats, error)
}

type productImportService struct {
	products repository.ProductRepository
	warnings *apperrors.WarningCounter
}

func NewProductImportService(products repository.ProductRepository, warnings *apperrors.WarningCounter) ProductImportService {
	return &productImportService{products: products, warnings: warnings}
}

func (s *productImportService) ImportCSV(r io.Reader) (ProductStats, error) {
	stats := ProductStats{}
	before := s.warnings.Count()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	codeCol, ok := columns["code"]
	if !ok {
		return stats, fmt.Errorf("product CSV has no `code` column")
	}
	categoriesCol, hasCategories := columns["categories"]
	countriesCol, hasCountries := columns["countries"]

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read product CSV: %w", err)
		}
		line++

		code, err := strconv.ParseInt(strings.TrimSpace(cell(row, codeCol)), 10, 64)
		if err != nil {
			return stats, fmt.Errorf("%w at line %d: %q", apperrors.ErrBadProductCode, line, cell(row, codeCol))
		}

		var categories []repository.LangName
		if hasCategories {
			categories = s.parseCategories(code, cell(row, categoriesCol), &stats)
		}

		var countries []string
		if hasCountries {
			countries = splitCell(cell(row, countriesCol))
		}

		if _, err := s.products.AddProduct(code, categories, countries); err != nil {
			return stats, err
		}
		stats.Products++

		if stats.Products%10000 == 0 {
			logger.Info("Product import progress", map[string]interface{}{
				"products": stats.Products,
			})
		}
	}

	stats.Warnings = s.warnings.Count() - before

	logger.Info("Product import finished", map[string]interface{}{
		"products":         stats.Products,
		"tag_form_skipped": stats.TagFormSkipped,
		"warnings":         stats.Warnings,
	})
	return stats, nil
}

// parseCategories splits a category cell into (lang, name) pairs. A bare
// value implies English; tag-form references are dropped with a warning.
func (s *productImportService) parseCategories(code int64, cellValue string, stats *ProductStats) []repository.LangName {
	var categories []repository.LangName
	for _, value := range splitCell(cellValue) {
		if tagFormRe.MatchString(value) {
			logger.Warn("Tag-form category reference, ignoring", map[string]interface{}{
				"product_code": code,
				"reference":    value,
			})
			s.warnings.Add(1)
			stats.TagFormSkipped++
			continue
		}
		if m := langPrefixRe.FindStringSubmatch(value); m != nil {
			categories = append(categories, repository.LangName{Lang: m[1], Name: strings.TrimSpace(m[2])})
			continue
		}
		categories = append(categories, repository.LangName{Lang: "en", Name: value})
	}
	return categories
}

// splitCell splits a multi-value cell. Sources disagree on the separator:
// some use newlines, some commas. Newlines win when present.
func splitCell(cellValue string) []string {
	separator := ","
	if strings.Contains(cellValue, "\n") {
		separator = "\n"
	}
	var values []string
	for _, v := range strings.Split(cellValue, separator) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

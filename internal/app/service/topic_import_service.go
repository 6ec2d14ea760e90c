package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// TopicStats summarizes one topic import run.
type TopicStats struct {
	Topics   int
	Skipped  int
	Warnings int
}

type TopicImportService interface {
	// ImportXLSX reads topics from the first sheet of a spreadsheet.
	// Expected header columns: Title, Author, Section, Version,
	// Categories, References, Body. Rows without a title are skipped.
	ImportXLSX(path string) (TopicStats, error)
}

type topicImportService struct {
	topics   repository.TopicRepository
	warnings *apperrors.WarningCounter
}

func NewTopicImportService(topics repository.TopicRepository, warnings *apperrors.WarningCounter) TopicImportService {
	return &topicImportService{topics: topics, warnings: warnings}
}

func (s *topicImportService) ImportXLSX(path string) (TopicStats, error) {
	stats := TopicStats{}
	before := s.warnings.Count()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return stats, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return stats, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return stats, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, row := range rows[1:] {
		title := strings.TrimSpace(column(row, columns, "title"))
		if title == "" {
			stats.Skipped++
			continue
		}

		topic := &model.Topic{
			Title:   title,
			Author:  strings.TrimSpace(column(row, columns, "author")),
			Section: strings.TrimSpace(column(row, columns, "section")),
			Body:    strings.TrimSpace(column(row, columns, "body")),
		}
		if version := strings.TrimSpace(column(row, columns, "version")); version != "" {
			parsed, err := time.Parse("2006-01-02", version)
			if err != nil {
				logger.Warn("Unparsable topic version date, leaving empty", map[string]interface{}{
					"topic":   title,
					"version": version,
				})
				s.warnings.Add(1)
			} else {
				topic.Version = parsed
			}
		}

		categories := splitCell(column(row, columns, "categories"))
		refs := parseReferences(column(row, columns, "references"))

		if err := s.topics.AddTopic(topic, categories, refs); err != nil {
			return stats, err
		}
		stats.Topics++
	}

	stats.Warnings = s.warnings.Count() - before

	logger.Info("Topic import finished", map[string]interface{}{
		"topics":   stats.Topics,
		"skipped":  stats.Skipped,
		"warnings": stats.Warnings,
	})
	return stats, nil
}

// parseReferences parses a references cell: one entry per line, each
// `RefID | details`, details optional.
func parseReferences(cellValue string) []repository.LiteratureRef {
	var refs []repository.LiteratureRef
	for _, line := range strings.Split(cellValue, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		refID, details, _ := strings.Cut(line, "|")
		refs = append(refs, repository.LiteratureRef{
			RefID:   strings.TrimSpace(refID),
			Details: strings.TrimSpace(details),
		})
	}
	return refs
}

func column(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

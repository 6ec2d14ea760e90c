package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	"github.com/fairdirect/foodrescue-content/internal/db"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupExportTest(t *testing.T) (*gorm.DB, repository.CategoryRepository, repository.TopicRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	warnings := &apperrors.WarningCounter{}
	categories := repository.NewCategoryRepository(testDB, warnings)
	topics := repository.NewTopicRepository(testDB, categories, warnings)
	return testDB, categories, topics
}

func TestCategoryExportService_ExportCSV(t *testing.T) {
	testDB, categories, _ := setupExportTest(t)
	defer db.CleanupTestDB(testDB)

	taxonomyImporter := NewTaxonomyImportService(categories, &apperrors.WarningCounter{})
	_, err := taxonomyImporter.Import("en: Fruits\n\n<en: Fruits\nen: Apples\n")
	require.NoError(t, err)
	require.NoError(t, categories.SetProductCount("Apples", 42))

	var buf bytes.Buffer
	count, err := NewCategoryExportService(categories).ExportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "name", "lang", "product_count", "parent_ids"}, records[0])

	fruitsRow, applesRow := records[1], records[2]
	assert.Equal(t, "Fruits", fruitsRow[1])
	assert.Equal(t, "en", fruitsRow[2])
	assert.Empty(t, fruitsRow[4])

	assert.Equal(t, "Apples", applesRow[1])
	assert.Equal(t, "42", applesRow[3])
	assert.Equal(t, fruitsRow[0], applesRow[4]) // parent id points at Fruits
}

func TestTopicExportService_ExportDocBook(t *testing.T) {
	testDB, categories, topics := setupExportTest(t)
	defer db.CleanupTestDB(testDB)

	taxonomyImporter := NewTaxonomyImportService(categories, &apperrors.WarningCounter{})
	_, err := taxonomyImporter.Import("en: Apples\n")
	require.NoError(t, err)

	topic := &model.Topic{
		Title: "Storing apples",
		Body:  "Keep them cool.\n\nCheck weekly for rot.",
	}
	require.NoError(t, topics.AddTopic(topic, []string{"Apples"}, []repository.LiteratureRef{
		{RefID: "WHO-2019", Details: "WHO food storage guidelines, 2019."},
	}))

	var buf bytes.Buffer
	count, err := NewTopicExportService(topics).ExportDocBook(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	out := buf.String()
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `xmlns="http://docbook.org/ns/docbook"`)
	assert.Contains(t, out, "<title>Storing apples</title>")
	assert.Contains(t, out, "<para>Keep them cool.</para>")
	assert.Contains(t, out, "<para>Check weekly for rot.</para>")
	assert.Contains(t, out, "Apples")
	assert.Contains(t, out, "WHO food storage guidelines")
	// Body paragraphs were split on blank lines.
	assert.Equal(t, 2, strings.Count(out, "<para>"))
}

func TestTopicExportService_SharedReferenceOnce(t *testing.T) {
	testDB, _, topics := setupExportTest(t)
	defer db.CleanupTestDB(testDB)

	ref := []repository.LiteratureRef{{RefID: "WHO-2019", Details: "WHO guidelines."}}
	require.NoError(t, topics.AddTopic(&model.Topic{Title: "First", Body: "A."}, nil, ref))
	require.NoError(t, topics.AddTopic(&model.Topic{Title: "Second", Body: "B."}, nil, ref))

	var buf bytes.Buffer
	_, err := NewTopicExportService(topics).ExportDocBook(&buf)
	require.NoError(t, err)

	// The bibliography lists each reference once.
	assert.Equal(t, 1, strings.Count(buf.String(), "ref-WHO-2019"))
}

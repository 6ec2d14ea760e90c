package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	"github.com/fairdirect/foodrescue-content/internal/db"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupTopicImportTest(t *testing.T) (*gorm.DB, TopicImportService, repository.CategoryRepository, *apperrors.WarningCounter) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	warnings := &apperrors.WarningCounter{}
	categories := repository.NewCategoryRepository(testDB, warnings)
	topics := repository.NewTopicRepository(testDB, categories, warnings)
	return testDB, NewTopicImportService(topics, warnings), categories, warnings
}

func writeTopicsXLSX(t *testing.T, rows [][]interface{}) string {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Title", "Author", "Section", "Version", "Categories", "References", "Body"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "topics.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestTopicImportService_ImportXLSX(t *testing.T) {
	testDB, importer, categories, _ := setupTopicImportTest(t)
	defer db.CleanupTestDB(testDB)

	taxonomyImporter := NewTaxonomyImportService(categories, &apperrors.WarningCounter{})
	_, err := taxonomyImporter.Import("en: Apples\n")
	require.NoError(t, err)

	path := writeTopicsXLSX(t, [][]interface{}{
		{
			"Storing apples over winter",
			"Jane Curator",
			"storage",
			"2025-03-01",
			"Apples",
			"WHO-2019 | WHO food storage guidelines, 2019.",
			"Keep apples cool and dark.",
		},
		{"", "Anonymous", "", "", "", "", "draft without a title"}, // untitled rows are skipped
	})

	stats, err := importer.ImportXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Topics)
	assert.Equal(t, 1, stats.Skipped)

	var topic model.Topic
	require.NoError(t, testDB.First(&topic).Error)
	assert.Equal(t, "Storing apples over winter", topic.Title)
	assert.Equal(t, "Jane Curator", topic.Author)
	assert.True(t, topic.Version.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	var literature model.Literature
	require.NoError(t, testDB.First(&literature).Error)
	assert.Equal(t, "WHO-2019", literature.RefID)

	var links int64
	require.NoError(t, testDB.Model(&model.TopicCategory{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestTopicImportService_UnknownCategoryWarns(t *testing.T) {
	testDB, importer, _, warnings := setupTopicImportTest(t)
	defer db.CleanupTestDB(testDB)

	path := writeTopicsXLSX(t, [][]interface{}{
		{"Orphan topic", "", "", "", "Nonexistent", "", "Body."},
	})

	stats, err := importer.ImportXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Topics)
	assert.Equal(t, 1, warnings.Count())
	assert.Equal(t, 1, stats.Warnings)
}

func TestTopicImportService_BadVersionDateWarns(t *testing.T) {
	testDB, importer, _, warnings := setupTopicImportTest(t)
	defer db.CleanupTestDB(testDB)

	path := writeTopicsXLSX(t, [][]interface{}{
		{"Topic", "", "", "March 2025", "", "", "Body."},
	})

	stats, err := importer.ImportXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Topics)
	assert.Equal(t, 1, warnings.Count())

	var topic model.Topic
	require.NoError(t, testDB.First(&topic).Error)
	assert.True(t, topic.Version.IsZero())
}

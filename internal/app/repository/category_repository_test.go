package repository

import (
	"testing"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	"github.com/fairdirect/foodrescue-content/internal/db"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryTest(t *testing.T) (*gorm.DB, CategoryRepository, *apperrors.WarningCounter) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	warnings := &apperrors.WarningCounter{}
	repo := NewCategoryRepository(testDB, warnings)
	return testDB, repo, warnings
}

func categoryBlock(names ...taxonomy.LangValues) taxonomy.CategoryBlock {
	return taxonomy.CategoryBlock{
		Parents:    []taxonomy.ParentRef{},
		Names:      names,
		Properties: []taxonomy.Property{},
	}
}

func en(values ...string) taxonomy.LangValues {
	return taxonomy.LangValues{Lang: "en", Values: values}
}

func TestCategoryRepository_AddCategory(t *testing.T) {
	testDB, repo, warnings := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	block := categoryBlock(
		en("Apples", "Apple"),
		taxonomy.LangValues{Lang: "fr", Values: []string{"Pommes"}},
	)

	category, err := repo.AddCategory(block)
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.NotZero(t, category.ID)
	assert.Zero(t, warnings.Count())

	var names []model.CategoryName
	require.NoError(t, testDB.Where("category_id = ?", category.ID).Find(&names).Error)
	assert.Len(t, names, 3)
}

// Re-running the category pass against an existing store leaves it
// unchanged: a warning, no duplicate rows, no error.
func TestCategoryRepository_AddCategory_Rerun(t *testing.T) {
	testDB, repo, warnings := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	block := categoryBlock(en("Apples"))

	first, err := repo.AddCategory(block)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.AddCategory(block)
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Equal(t, 1, warnings.Count())

	var categoryCount, nameCount int64
	require.NoError(t, testDB.Model(&model.Category{}).Count(&categoryCount).Error)
	require.NoError(t, testDB.Model(&model.CategoryName{}).Count(&nameCount).Error)
	assert.EqualValues(t, 1, categoryCount)
	assert.EqualValues(t, 1, nameCount)
}

// A synonym already claimed by another category is skipped without
// aborting the rest of the block. The (name, lang) pair stays unique.
func TestCategoryRepository_AddCategory_NameConflict(t *testing.T) {
	testDB, repo, warnings := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	first, err := repo.AddCategory(categoryBlock(en("Apples")))
	require.NoError(t, err)

	second, err := repo.AddCategory(categoryBlock(en("Granny Smith", "Apples")))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 1, warnings.Count())

	// "Apples" still belongs to the first category.
	id, found, err := repo.FindIDByName("Apples", "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first.ID, id)

	var nameCount int64
	require.NoError(t, testDB.Model(&model.CategoryName{}).Count(&nameCount).Error)
	assert.EqualValues(t, 2, nameCount)
}

func TestCategoryRepository_AddCategoryParents(t *testing.T) {
	testDB, repo, _ := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	fruits, err := repo.AddCategory(categoryBlock(en("Fruits", "Fruit")))
	require.NoError(t, err)

	applesBlock := categoryBlock(en("Apples"))
	applesBlock.Parents = []taxonomy.ParentRef{{Lang: "en", Name: "Fruits"}}
	apples, err := repo.AddCategory(applesBlock)
	require.NoError(t, err)

	require.NoError(t, repo.AddCategoryParents(applesBlock))

	ancestors, err := repo.AncestorSet([]uint{apples.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]struct{}{fruits.ID: {}}, ancestors)

	// Fruits itself has no parents.
	ancestors, err = repo.AncestorSet([]uint{fruits.ID})
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestCategoryRepository_AddCategoryParents_OwnNameMissing(t *testing.T) {
	testDB, repo, _ := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	block := categoryBlock(en("Apples"))
	block.Parents = []taxonomy.ParentRef{{Lang: "en", Name: "Fruits"}}

	err := repo.AddCategoryParents(block)
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryRepository_AddCategoryParents_Recoverable(t *testing.T) {
	tests := []struct {
		name         string
		parents      []taxonomy.ParentRef
		runTwice     bool
		wantWarnings int
		wantEdges    int64
	}{
		{
			name:         "unresolved parent is skipped",
			parents:      []taxonomy.ParentRef{{Lang: "en", Name: "Vegetables"}},
			wantWarnings: 1,
			wantEdges:    0,
		},
		{
			name:         "self-referential parent is skipped",
			parents:      []taxonomy.ParentRef{{Lang: "en", Name: "Apples"}},
			wantWarnings: 1,
			wantEdges:    0,
		},
		{
			name:         "duplicate edge is skipped on rerun",
			parents:      []taxonomy.ParentRef{{Lang: "en", Name: "Fruits"}},
			runTwice:     true,
			wantWarnings: 1,
			wantEdges:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, repo, warnings := setupCategoryTest(t)
			defer db.CleanupTestDB(testDB)

			_, err := repo.AddCategory(categoryBlock(en("Fruits")))
			require.NoError(t, err)

			block := categoryBlock(en("Apples"))
			block.Parents = tt.parents
			_, err = repo.AddCategory(block)
			require.NoError(t, err)

			require.NoError(t, repo.AddCategoryParents(block))
			if tt.runTwice {
				require.NoError(t, repo.AddCategoryParents(block))
			}

			assert.Equal(t, tt.wantWarnings, warnings.Count())

			var edges int64
			require.NoError(t, testDB.Model(&model.CategoryStructure{}).Count(&edges).Error)
			assert.Equal(t, tt.wantEdges, edges)
		})
	}
}

func TestCategoryRepository_AncestorSet_Deep(t *testing.T) {
	testDB, repo, _ := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	// Plant products -> Fruits -> Apples, with Apples also under
	// Snacks: a DAG, not a tree.
	plant, err := repo.AddCategory(categoryBlock(en("Plant products")))
	require.NoError(t, err)
	_, err = repo.AddCategory(categoryBlock(en("Snacks")))
	require.NoError(t, err)

	fruitsBlock := categoryBlock(en("Fruits"))
	fruitsBlock.Parents = []taxonomy.ParentRef{{Lang: "en", Name: "Plant products"}}
	fruits, err := repo.AddCategory(fruitsBlock)
	require.NoError(t, err)
	require.NoError(t, repo.AddCategoryParents(fruitsBlock))

	applesBlock := categoryBlock(en("Apples"))
	applesBlock.Parents = []taxonomy.ParentRef{
		{Lang: "en", Name: "Fruits"},
		{Lang: "en", Name: "Snacks"},
	}
	apples, err := repo.AddCategory(applesBlock)
	require.NoError(t, err)
	require.NoError(t, repo.AddCategoryParents(applesBlock))

	ancestors, err := repo.AncestorSet([]uint{apples.ID})
	require.NoError(t, err)
	assert.Len(t, ancestors, 3)
	assert.Contains(t, ancestors, fruits.ID)
	assert.Contains(t, ancestors, plant.ID)

	// Empty input, empty closure.
	ancestors, err = repo.AncestorSet(nil)
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestCategoryRepository_SetProductCount(t *testing.T) {
	testDB, repo, warnings := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	category, err := repo.AddCategory(categoryBlock(en("Apples")))
	require.NoError(t, err)

	require.NoError(t, repo.SetProductCount("Apples", 1234))

	var stored model.Category
	require.NoError(t, testDB.First(&stored, category.ID).Error)
	require.NotNil(t, stored.ProductCount)
	assert.EqualValues(t, 1234, *stored.ProductCount)

	// Unknown name warns but does not fail.
	require.NoError(t, repo.SetProductCount("Nonexistent", 5))
	assert.Equal(t, 1, warnings.Count())
}

func TestCategoryRepository_FindOrCreateByName(t *testing.T) {
	testDB, repo, _ := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	id, err := repo.FindOrCreateByName("Pommes", "fr")
	require.NoError(t, err)
	assert.NotZero(t, id)

	again, err := repo.FindOrCreateByName("Pommes", "fr")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	var count int64
	require.NoError(t, testDB.Model(&model.Category{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCategoryRepository_ExportRows(t *testing.T) {
	testDB, repo, _ := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	fruits, err := repo.AddCategory(categoryBlock(
		taxonomy.LangValues{Lang: "fr", Values: []string{"Fruits"}},
		en("Fruits"),
	))
	require.NoError(t, err)

	applesBlock := categoryBlock(en("Apples"))
	applesBlock.Parents = []taxonomy.ParentRef{{Lang: "en", Name: "Fruits"}}
	apples, err := repo.AddCategory(applesBlock)
	require.NoError(t, err)
	require.NoError(t, repo.AddCategoryParents(applesBlock))

	rows, err := repo.ExportRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// English name wins even when another language was listed first.
	assert.Equal(t, "Fruits", rows[0].Name)
	assert.Equal(t, "en", rows[0].Lang)
	assert.Empty(t, rows[0].ParentIDs)

	assert.Equal(t, apples.ID, rows[1].ID)
	assert.Equal(t, []uint{fruits.ID}, rows[1].ParentIDs)
}

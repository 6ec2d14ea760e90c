package repository

import (
	"errors"
	"fmt"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/internal/taxonomy"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"gorm.io/gorm"
)

// LangName identifies a category by one of its names plus the name's
// language. This is the only way other components refer to categories;
// ids are assigned exclusively by this store.
type LangName struct {
	Lang string
	Name string
}

type CategoryRepository interface {
	// AddCategory creates one category with one name record per (lang,
	// name) pair of the block. Name insertion is best-effort per name: a
	// (name, lang) pair already claimed by another category is skipped
	// with a warning, it never aborts the category or its other names.
	AddCategory(block taxonomy.CategoryBlock) (*model.Category, error)

	// AddCategoryParents links the block's category to its declared
	// parents. The block's own main name must already resolve (the
	// category pass runs first); failure to resolve it is an error, not
	// a warning. Unresolved parents, duplicate edges and self-loops are
	// skipped with a warning.
	AddCategoryParents(block taxonomy.CategoryBlock) error

	// SetProductCount stores the upstream usage count for the category
	// carrying the given name in any language; warns when no category
	// matches.
	SetProductCount(name string, count int64) error

	FindIDByName(name, lang string) (uint, bool, error)

	// FindOrCreateByName resolves a name to a category id, lazily
	// creating the category and name record for names first seen during
	// product import.
	FindOrCreateByName(name, lang string) (uint, error)

	// AncestorSet computes the transitive ancestor closure of the whole
	// id set in a single recursive query over the edge table.
	AncestorSet(ids []uint) (map[uint]struct{}, error)

	// ExportRows returns one row per category with its canonical main
	// name, for CSV export.
	ExportRows() ([]CategoryExportRow, error)
}

// CategoryExportRow is the flattened per-category view used by exports.
type CategoryExportRow struct {
	ID           uint
	Name         string
	Lang         string
	ProductCount *int64
	ParentIDs    []uint
}

type categoryRepository struct {
	db       *gorm.DB
	warnings *apperrors.WarningCounter
}

func NewCategoryRepository(db *gorm.DB, warnings *apperrors.WarningCounter) CategoryRepository {
	return &categoryRepository{db: db, warnings: warnings}
}

func (r *categoryRepository) AddCategory(block taxonomy.CategoryBlock) (*model.Category, error) {
	mainName, mainLang, ok := block.MainName()
	if !ok {
		return nil, apperrors.ErrNoMainName
	}

	// The main name may already be claimed by an earlier block with the
	// same name. First insert wins; the whole later block is skipped so
	// it cannot half-claim the remaining synonyms.
	if existingID, found, err := r.FindIDByName(mainName, mainLang); err != nil {
		return nil, err
	} else if found {
		logger.Warn("Category already exists, keeping first insert", map[string]interface{}{
			"name":        mainName,
			"lang":        mainLang,
			"category_id": existingID,
		})
		r.warnings.Add(1)
		return nil, nil
	}

	category := &model.Category{}
	if err := r.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", mainName, err)
	}

	for _, entry := range block.Names {
		for _, name := range entry.Values {
			if err := r.addName(category.ID, name, entry.Lang); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        mainName,
		"lang":        mainLang,
	})
	return category, nil
}

// addName inserts one (name, lang) record, skipping with a warning when the
// pair is already claimed. Claims by the same category happen when a block
// lists the same synonym twice; claims by a different category are the
// first-insert-wins conflict policy.
func (r *categoryRepository) addName(categoryID uint, name, lang string) error {
	existingID, found, err := r.FindIDByName(name, lang)
	if err != nil {
		return err
	}
	if found {
		logger.Warn("Category name already claimed, skipping", map[string]interface{}{
			"name":        name,
			"lang":        lang,
			"claimed_by":  existingID,
			"category_id": categoryID,
		})
		r.warnings.Add(1)
		return nil
	}

	record := model.CategoryName{CategoryID: categoryID, Name: name, Lang: lang}
	if err := r.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create category name %s:%q: %w", lang, name, err)
	}
	return nil
}

func (r *categoryRepository) AddCategoryParents(block taxonomy.CategoryBlock) error {
	mainName, mainLang, ok := block.MainName()
	if !ok {
		return apperrors.ErrNoMainName
	}

	ownID, found, err := r.FindIDByName(mainName, mainLang)
	if err != nil {
		return err
	}
	if !found {
		// The category pass must run to completion before the edge
		// pass; a missing own name means the passes ran out of order.
		return fmt.Errorf("%w: %s:%q (was the category pass run first?)", apperrors.ErrCategoryNotFound, mainLang, mainName)
	}

	for _, parent := range block.Parents {
		parentID, found, err := r.FindIDByName(parent.Name, parent.Lang)
		if err != nil {
			return err
		}
		if !found {
			logger.Warn("Parent category not found, skipping edge", map[string]interface{}{
				"category": mainName,
				"parent":   parent.Name,
				"lang":     parent.Lang,
			})
			r.warnings.Add(1)
			continue
		}
		if parentID == ownID {
			logger.Warn("Self-referential parent, skipping edge", map[string]interface{}{
				"category":    mainName,
				"category_id": ownID,
			})
			r.warnings.Add(1)
			continue
		}

		var count int64
		if err := r.db.Model(&model.CategoryStructure{}).
			Where("category_id = ? AND parent_id = ?", ownID, parentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("Hierarchy edge already exists, skipping", map[string]interface{}{
				"category": mainName,
				"parent":   parent.Name,
			})
			r.warnings.Add(1)
			continue
		}

		edge := model.CategoryStructure{CategoryID: ownID, ParentID: parentID}
		if err := r.db.Create(&edge).Error; err != nil {
			return fmt.Errorf("failed to create edge %d->%d: %w", ownID, parentID, err)
		}
	}

	return nil
}

func (r *categoryRepository) SetProductCount(name string, count int64) error {
	// Counts arrive keyed by bare main name without a language tag, so
	// the lookup matches across languages, first match wins.
	var record model.CategoryName
	err := r.db.Where("name = ?", name).Order("id ASC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("No category for product count, skipping", map[string]interface{}{
			"name":  name,
			"count": count,
		})
		r.warnings.Add(1)
		return nil
	}
	if err != nil {
		return err
	}

	return r.db.Model(&model.Category{}).
		Where("id = ?", record.CategoryID).
		Update("product_count", count).Error
}

func (r *categoryRepository) FindIDByName(name, lang string) (uint, bool, error) {
	var record model.CategoryName
	err := r.db.Where("name = ? AND lang = ?", name, lang).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return record.CategoryID, true, nil
}

func (r *categoryRepository) FindOrCreateByName(name, lang string) (uint, error) {
	id, found, err := r.FindIDByName(name, lang)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	category := model.Category{}
	if err := r.db.Create(&category).Error; err != nil {
		return 0, fmt.Errorf("failed to create category for %s:%q: %w", lang, name, err)
	}
	record := model.CategoryName{CategoryID: category.ID, Name: name, Lang: lang}
	if err := r.db.Create(&record).Error; err != nil {
		return 0, fmt.Errorf("failed to create category name %s:%q: %w", lang, name, err)
	}

	logger.Debug("Category created lazily during import", map[string]interface{}{
		"category_id": category.ID,
		"name":        name,
		"lang":        lang,
	})
	return category.ID, nil
}

// ancestorQuery walks the edge table upward from the given id set. One
// recursive query covers the union of all starting ids; UNION (not UNION
// ALL) keeps the recursion finite even on shared ancestors.
const ancestorQuery = `
WITH RECURSIVE ancestors(id) AS (
	SELECT parent_id FROM category_structures WHERE category_id IN ?
	UNION
	SELECT cs.parent_id FROM category_structures cs
	JOIN ancestors a ON cs.category_id = a.id
)
SELECT id FROM ancestors`

func (r *categoryRepository) AncestorSet(ids []uint) (map[uint]struct{}, error) {
	set := make(map[uint]struct{})
	if len(ids) == 0 {
		return set, nil
	}

	var ancestorIDs []uint
	if err := r.db.Raw(ancestorQuery, ids).Scan(&ancestorIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to compute ancestor closure: %w", err)
	}

	for _, id := range ancestorIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *categoryRepository) ExportRows() ([]CategoryExportRow, error) {
	var categories []model.Category
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	var names []model.CategoryName
	if err := r.db.Order("id ASC").Find(&names).Error; err != nil {
		return nil, err
	}
	namesByCategory := make(map[uint][]model.CategoryName)
	for _, n := range names {
		namesByCategory[n.CategoryID] = append(namesByCategory[n.CategoryID], n)
	}

	var edges []model.CategoryStructure
	if err := r.db.Order("category_id ASC, parent_id ASC").Find(&edges).Error; err != nil {
		return nil, err
	}
	parentsByCategory := make(map[uint][]uint)
	for _, e := range edges {
		parentsByCategory[e.CategoryID] = append(parentsByCategory[e.CategoryID], e.ParentID)
	}

	rows := make([]CategoryExportRow, 0, len(categories))
	for _, c := range categories {
		row := CategoryExportRow{
			ID:           c.ID,
			ProductCount: c.ProductCount,
			ParentIDs:    parentsByCategory[c.ID],
		}
		// English preferred, else the first recorded name.
		for _, n := range namesByCategory[c.ID] {
			if n.Lang == "en" {
				row.Name, row.Lang = n.Name, n.Lang
				break
			}
			if row.Name == "" {
				row.Name, row.Lang = n.Name, n.Lang
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

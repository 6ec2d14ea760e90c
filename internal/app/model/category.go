package model

import "time"

// Category is a node in the product classification hierarchy. A category
// may have multiple parents, so the hierarchy is a DAG, not a tree.
// Categories are created once and never deleted; only the product usage
// count is updated in place.
type Category struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProductCount *int64    `json:"product_count,omitempty"` // products tagged with this category upstream, nil when unknown
	CreatedAt    time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryName is one name of a category in one language. The (name, lang)
// pair is globally unique: the same literal name in the same language can
// never denote two different categories.
type CategoryName struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CategoryID uint   `gorm:"not null;index" json:"category_id"`
	Name       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_category_names_name_lang" json:"name"`
	Lang       string `gorm:"type:varchar(6);not null;uniqueIndex:idx_category_names_name_lang" json:"lang"`

	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (CategoryName) TableName() string {
	return "category_names"
}

// CategoryStructure is one parent/child edge of the category hierarchy.
// No self-loops; duplicate edges are rejected by the composite key.
type CategoryStructure struct {
	CategoryID uint `gorm:"primaryKey" json:"category_id"`
	ParentID   uint `gorm:"primaryKey;index" json:"parent_id"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Parent   Category `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (CategoryStructure) TableName() string {
	return "category_structures"
}

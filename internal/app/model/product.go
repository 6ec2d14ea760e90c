package model

import "time"

// Product is one barcoded product. The store-assigned sequential ID, not
// the GTIN, keys all associations; association tables stay narrow that way.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      int64     `gorm:"not null;index" json:"code"` // GTIN / EAN barcode number
	CreatedAt time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductCategory links a product to one of its directly assigned
// categories. Categories that are transitive ancestors of another assigned
// category are never stored here; the import enforces that.
type ProductCategory struct {
	ProductID  uint `gorm:"primaryKey" json:"product_id"`
	CategoryID uint `gorm:"primaryKey;index" json:"category_id"`

	Product  Product  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// Country is a name-keyed lookup table, created on demand during product
// import.
type Country struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Country) TableName() string {
	return "countries"
}

// ProductCountry links a product to a country it is sold in.
type ProductCountry struct {
	ProductID uint `gorm:"primaryKey" json:"product_id"`
	CountryID uint `gorm:"primaryKey;index" json:"country_id"`

	Product Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Country Country `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ProductCountry) TableName() string {
	return "product_countries"
}

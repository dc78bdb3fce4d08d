package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VariantKind string

const (
	VariantSize   VariantKind = "size"
	VariantWeight VariantKind = "weight"
	VariantExtra  VariantKind = "extra"
)

type Product struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID        `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     Category         `gorm:"foreignKey:CategoryID" json:"-"`
	Name         string           `gorm:"not null;index" json:"name"`
	NameAr       string           `json:"name_ar"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL     string           `json:"image_url"`
	IsAvailable  bool             `gorm:"default:true;index" json:"is_available"`
	SortOrder    int              `gorm:"default:0" json:"sort_order"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductVariant is one size, weight or extra of a product. Price is nullable:
// a variant without a price adds nothing to the unit price.
type ProductVariant struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Kind      VariantKind         `gorm:"not null" json:"kind"`
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`
	SortOrder int                 `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

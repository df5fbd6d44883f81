package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a sellable catalog entry. Add-on groups attach at the product
// level; variants inherit whatever groups their product is linked to.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string           `gorm:"column:title;not null"`
	Handle      string           `gorm:"column:handle;not null;uniqueIndex"`
	Description *string          `gorm:"column:description"`
	Thumbnail   *string          `gorm:"column:thumbnail"`
	Tags        pq.StringArray   `gorm:"column:tags;type:text[]"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AddonGroups []AddonGroup     `gorm:"many2many:addon_group_products;"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is the purchasable unit of a Product.
type ProductVariant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Product     *Product  `gorm:"foreignKey:ProductID"`
	Title       string    `gorm:"column:title;not null"`
	VariantRank int       `gorm:"column:variant_rank;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/enums"
)

// AddonGroup is a named collection of addons linked to products many-to-many.
// An addon is only orderable alongside a variant whose product links the
// addon's group.
type AddonGroup struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Handle    string    `gorm:"column:handle;not null;uniqueIndex"`
	Addons    []Addon   `gorm:"foreignKey:AddonGroupID"`
	Products  []Product `gorm:"many2many:addon_group_products;"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Addon is a sellable accessory (extra topping, upgrade) offered through a group.
type Addon struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AddonGroupID *uuid.UUID        `gorm:"column:addon_group_id;type:uuid;index"`
	Title        string            `gorm:"column:title;not null"`
	Handle       string            `gorm:"column:handle;not null;uniqueIndex"`
	Thumbnail    *string           `gorm:"column:thumbnail"`
	Status       enums.AddonStatus `gorm:"column:status;not null;default:'draft'"`
	Variants     []AddonVariant    `gorm:"foreignKey:AddonID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// AddonVariant is the priced, selectable unit of an Addon. PriceSetID points at
// the contextual price rows resolved at cart time.
type AddonVariant struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AddonID     uuid.UUID  `gorm:"column:addon_id;type:uuid;not null;index"`
	Addon       *Addon     `gorm:"foreignKey:AddonID"`
	Title       string     `gorm:"column:title;not null"`
	PriceSetID  *uuid.UUID `gorm:"column:price_set_id;type:uuid;index"`
	VariantRank int        `gorm:"column:variant_rank;not null;default:0"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

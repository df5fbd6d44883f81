package models

import (
	"time"

	"github.com/google/uuid"
)

// Metadata keys distinguishing base items from addon items. These are the only
// durable markers of the addon bookkeeping and must round-trip unchanged.
const (
	MetaVariantAddonSignature = "variant_addon_signature"
	MetaAddonVariantID        = "addon_variant_id"
	MetaAddonVariantQuantity  = "addon_variant_quantity"
)

// LineItem is a single cart row. Base items reference a product variant; addon
// items reference an addon variant through metadata and share their base item's
// signature.
type LineItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	VariantID      *uuid.UUID      `gorm:"column:variant_id;type:uuid;index"`
	Title          string          `gorm:"column:title;not null"`
	Thumbnail      *string         `gorm:"column:thumbnail"`
	Quantity       int             `gorm:"column:quantity;not null"`
	UnitPriceCents int             `gorm:"column:unit_price_cents;not null;default:0"`
	Metadata       map[string]any  `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// AddonSignature returns the stored configuration signature, if present.
func (li *LineItem) AddonSignature() (string, bool) {
	if li == nil || li.Metadata == nil {
		return "", false
	}
	sig, ok := li.Metadata[MetaVariantAddonSignature].(string)
	return sig, ok && sig != ""
}

// IsAddonItem reports whether the row represents an addon attached to a base item.
func (li *LineItem) IsAddonItem() bool {
	if li == nil || li.Metadata == nil {
		return false
	}
	id, ok := li.Metadata[MetaAddonVariantID].(string)
	return ok && id != ""
}

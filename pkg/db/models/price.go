package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/enums"
)

// PriceSet groups the contextual price rows for one priced entity.
type PriceSet struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Prices    []Price   `gorm:"foreignKey:PriceSetID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Price is one currency/region row inside a PriceSet. A nil RegionID means the
// row applies to any region with a matching currency.
type Price struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceSetID  uuid.UUID      `gorm:"column:price_set_id;type:uuid;not null;index"`
	Currency    enums.Currency `gorm:"column:currency;not null"`
	RegionID    *uuid.UUID     `gorm:"column:region_id;type:uuid;index"`
	AmountCents int            `gorm:"column:amount_cents;not null"`
	MinQuantity *int           `gorm:"column:min_quantity"`
	MaxQuantity *int           `gorm:"column:max_quantity"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

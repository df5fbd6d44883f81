package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/enums"
)

// Cart holds an ordered set of line items plus the pricing context (currency,
// region, customer) used when resolving addon prices. A cart with CompletedAt
// set is immutable for the reconciliation engine.
type Cart struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Currency      enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	RegionID      *uuid.UUID     `gorm:"column:region_id;type:uuid"`
	CustomerID    *uuid.UUID     `gorm:"column:customer_id;type:uuid"`
	Email         *string        `gorm:"column:email"`
	SubtotalCents int            `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents    int            `gorm:"column:total_cents;not null;default:0"`
	CompletedAt   *time.Time     `gorm:"column:completed_at"`
	Items         []LineItem     `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Completed reports whether the cart has been checked out.
func (c *Cart) Completed() bool {
	return c != nil && c.CompletedAt != nil
}

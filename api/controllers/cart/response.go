package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	Currency      string             `json:"currency"`
	SubtotalCents int                `json:"subtotal_cents"`
	TotalCents    int                `json:"total_cents"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	Items         []LineItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type LineItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	Title          string     `json:"title"`
	Thumbnail      *string    `json:"thumbnail,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int        `json:"unit_price_cents"`
	IsAddon        bool       `json:"is_addon"`
	AddonSignature string     `json:"addon_signature,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func newCartResponse(record *models.Cart) CartResponse {
	items := make([]LineItemResponse, 0, len(record.Items))
	for i := range record.Items {
		item := record.Items[i]
		sig, _ := item.AddonSignature()
		items = append(items, LineItemResponse{
			ID:             item.ID,
			VariantID:      item.VariantID,
			Title:          item.Title,
			Thumbnail:      item.Thumbnail,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			IsAddon:        item.IsAddonItem(),
			AddonSignature: sig,
			CreatedAt:      item.CreatedAt,
			UpdatedAt:      item.UpdatedAt,
		})
	}

	return CartResponse{
		ID:            record.ID,
		Currency:      string(record.Currency),
		SubtotalCents: record.SubtotalCents,
		TotalCents:    record.TotalCents,
		CompletedAt:   record.CompletedAt,
		Items:         items,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

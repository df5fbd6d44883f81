package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

// Repository exposes cart-level persistence: loading a cart with its items
// and refreshing the derived totals after line items changed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	RefreshTotals(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&cart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repositoryImpl) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// RefreshTotals recomputes the cart subtotal and total from its current line
// items and persists them. Amount arithmetic runs through decimal so the sum
// stays exact for any cent values.
func (r *repositoryImpl) RefreshTotals(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var items []models.LineItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Find(&items).Error; err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromInt(int64(item.UnitPriceCents)).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotalCents := int(subtotal.IntPart())

	if err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"subtotal_cents": subtotalCents,
			"total_cents":    subtotalCents,
		}).Error; err != nil {
		return nil, err
	}

	return r.FindByID(ctx, cartID)
}

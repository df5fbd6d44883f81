package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

// LineItemRepository manages persistent cart line items. Each call is atomic
// on its own; cross-call consistency is the reconciliation engine's job.
type LineItemRepository interface {
	WithTx(tx *gorm.DB) LineItemRepository
	CreateLineItems(ctx context.Context, items []models.LineItem) ([]models.LineItem, error)
	UpdateLineItems(ctx context.Context, items []models.LineItem) error
	DeleteLineItems(ctx context.Context, ids []uuid.UUID) error
	ListLineItems(ctx context.Context, cartID uuid.UUID) ([]models.LineItem, error)
}

type lineItemRepositoryImpl struct {
	db *gorm.DB
}

// NewLineItemRepository binds the repository to the provided DB handle.
func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepositoryImpl{db: db}
}

func (r *lineItemRepositoryImpl) WithTx(tx *gorm.DB) LineItemRepository {
	if tx == nil {
		return r
	}
	return &lineItemRepositoryImpl{db: tx}
}

func (r *lineItemRepositoryImpl) CreateLineItems(ctx context.Context, items []models.LineItem) ([]models.LineItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateLineItems persists quantity, price and metadata for each item by id.
func (r *lineItemRepositoryImpl) UpdateLineItems(ctx context.Context, items []models.LineItem) error {
	for _, item := range items {
		if err := r.db.WithContext(ctx).
			Model(&models.LineItem{ID: item.ID}).
			Select("quantity", "unit_price_cents", "metadata").
			Updates(models.LineItem{
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
				Metadata:       item.Metadata,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *lineItemRepositoryImpl) DeleteLineItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.LineItem{}).Error
}

func (r *lineItemRepositoryImpl) ListLineItems(ctx context.Context, cartID uuid.UUID) ([]models.LineItem, error) {
	var items []models.LineItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/enums"
)

// Context is the cart-derived pricing context a price is resolved under.
type Context struct {
	Currency   enums.Currency
	RegionID   *uuid.UUID
	CustomerID *uuid.UUID
	Quantity   int
}

// Calculator resolves calculated amounts for price sets under a context.
type Calculator interface {
	WithTx(tx *gorm.DB) Calculator
	CalculatePrices(ctx context.Context, priceSetIDs []uuid.UUID, calc Context) (map[uuid.UUID]int, error)
}

type calculatorImpl struct {
	db *gorm.DB
}

// NewCalculator returns a calculator reading price rows from the database.
func NewCalculator(db *gorm.DB) Calculator {
	return &calculatorImpl{db: db}
}

func (c *calculatorImpl) WithTx(tx *gorm.DB) Calculator {
	if tx == nil {
		return c
	}
	return &calculatorImpl{db: tx}
}

// CalculatePrices loads every price row for the requested sets in one query
// and picks the best match per set: currency must match, region-specific rows
// beat region-less ones, and ties resolve to the lowest amount. Sets with no
// matching row are absent from the result; callers decide whether that is fatal.
func (c *calculatorImpl) CalculatePrices(ctx context.Context, priceSetIDs []uuid.UUID, calc Context) (map[uuid.UUID]int, error) {
	amounts := make(map[uuid.UUID]int, len(priceSetIDs))
	if len(priceSetIDs) == 0 {
		return amounts, nil
	}

	var rows []models.Price
	if err := c.db.WithContext(ctx).
		Where("price_set_id IN ?", priceSetIDs).
		Where("currency = ?", calc.Currency).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	quantity := calc.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	best := map[uuid.UUID]models.Price{}
	for _, row := range rows {
		if !regionMatches(row, calc.RegionID) {
			continue
		}
		if !quantityInRange(row, quantity) {
			continue
		}
		current, ok := best[row.PriceSetID]
		if !ok || beats(row, current) {
			best[row.PriceSetID] = row
		}
	}

	for setID, row := range best {
		amounts[setID] = row.AmountCents
	}
	return amounts, nil
}

func regionMatches(row models.Price, regionID *uuid.UUID) bool {
	if row.RegionID == nil {
		return true
	}
	return regionID != nil && *row.RegionID == *regionID
}

func quantityInRange(row models.Price, quantity int) bool {
	if row.MinQuantity != nil && quantity < *row.MinQuantity {
		return false
	}
	if row.MaxQuantity != nil && quantity > *row.MaxQuantity {
		return false
	}
	return true
}

// beats reports whether candidate is a better match than current.
func beats(candidate, current models.Price) bool {
	candidateScoped := candidate.RegionID != nil
	currentScoped := current.RegionID != nil
	if candidateScoped != currentScoped {
		return candidateScoped
	}
	return decimal.NewFromInt(int64(candidate.AmountCents)).
		LessThan(decimal.NewFromInt(int64(current.AmountCents)))
}

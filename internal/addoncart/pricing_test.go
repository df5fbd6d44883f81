package addoncart

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/pricing"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
)

type recordingCalculator struct {
	contexts []pricing.Context
	omit     map[uuid.UUID]bool
}

func (c *recordingCalculator) CalculatePrices(_ context.Context, priceSetIDs []uuid.UUID, calc pricing.Context) (map[uuid.UUID]int, error) {
	c.contexts = append(c.contexts, calc)
	out := map[uuid.UUID]int{}
	for _, id := range priceSetIDs {
		if c.omit[id] {
			continue
		}
		out[id] = 25 * calc.Quantity
	}
	return out, nil
}

func TestResolveAddonPricesUsesPlannedQuantity(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	a := uuid.New()
	b := uuid.New()
	linkage := testLinkage(base, a, b)

	plan := &Plan{CreateAddonItems: []ItemCreate{
		{AddonVariantID: a, PerUnitQuantity: 1, Quantity: 2},
		{AddonVariantID: b, PerUnitQuantity: 3, Quantity: 6},
	}}

	calc := &recordingCalculator{}
	if err := resolveAddonPrices(context.Background(), calc, linkage, plan, pricing.Context{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quantities := make([]int, 0, len(calc.contexts))
	for _, c := range calc.contexts {
		quantities = append(quantities, c.Quantity)
	}
	sort.Ints(quantities)
	if len(quantities) != 2 || quantities[0] != 2 || quantities[1] != 6 {
		t.Fatalf("calculator should see each planned quantity, got %v", quantities)
	}

	for _, create := range plan.CreateAddonItems {
		if create.UnitPriceCents != 25*create.Quantity {
			t.Fatalf("amount resolved at the wrong quantity for %s: got %d", create.AddonVariantID, create.UnitPriceCents)
		}
	}
}

func TestResolveAddonPricesMissingAmount(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	setID := *linkage[base].Allowed[a].PriceSetID

	plan := &Plan{CreateAddonItems: []ItemCreate{
		{AddonVariantID: a, PerUnitQuantity: 1, Quantity: 1},
	}}

	calc := &recordingCalculator{omit: map[uuid.UUID]bool{setID: true}}
	err := resolveAddonPrices(context.Background(), calc, linkage, plan, pricing.Context{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePriceNotFound {
		t.Fatalf("expected CodePriceNotFound, got %v", err)
	}
}

package addoncart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/pricing"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
)

type priceCalculator interface {
	CalculatePrices(ctx context.Context, priceSetIDs []uuid.UUID, calc pricing.Context) (map[uuid.UUID]int, error)
}

// resolveAddonPrices fills UnitPriceCents on every planned addon creation,
// batching one price calculation per distinct planned quantity so volume
// bounds on price rows apply to the quantity actually being created. Any
// addon variant without a price set, or whose set produces no amount under
// the context, makes the whole resolution fail with a PriceNotFound naming
// every offending id; callers never see partially priced plans.
func resolveAddonPrices(ctx context.Context, calculator priceCalculator, linkage Linkage, plan *Plan, calc pricing.Context) error {
	if len(plan.CreateAddonItems) == 0 {
		return nil
	}

	priceSetByAddon := map[uuid.UUID]uuid.UUID{}
	for _, entry := range linkage {
		for addonVariantID, detail := range entry.Allowed {
			if detail.PriceSetID != nil {
				priceSetByAddon[addonVariantID] = *detail.PriceSetID
			}
		}
	}

	var unpriced []string
	setsByQuantity := map[int][]uuid.UUID{}
	seen := map[string]struct{}{}
	for _, create := range plan.CreateAddonItems {
		setID, ok := priceSetByAddon[create.AddonVariantID]
		if !ok {
			unpriced = append(unpriced, create.AddonVariantID.String())
			continue
		}
		key := fmt.Sprintf("%s:%d", setID, create.Quantity)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		setsByQuantity[create.Quantity] = append(setsByQuantity[create.Quantity], setID)
	}
	if len(unpriced) > 0 {
		return priceNotFound(unpriced)
	}

	amounts := map[int]map[uuid.UUID]int{}
	for quantity, setIDs := range setsByQuantity {
		scoped := calc
		scoped.Quantity = quantity
		resolved, err := calculator.CalculatePrices(ctx, setIDs, scoped)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calculating addon prices")
		}
		amounts[quantity] = resolved
	}

	for i := range plan.CreateAddonItems {
		create := &plan.CreateAddonItems[i]
		setID := priceSetByAddon[create.AddonVariantID]
		amount, ok := amounts[create.Quantity][setID]
		if !ok {
			unpriced = append(unpriced, create.AddonVariantID.String())
			continue
		}
		create.UnitPriceCents = amount
	}
	if len(unpriced) > 0 {
		return priceNotFound(unpriced)
	}
	return nil
}

func priceNotFound(addonVariantIDs []string) error {
	return pkgerrors.New(pkgerrors.CodePriceNotFound,
		fmt.Sprintf("no calculable price for addon variants: %s", strings.Join(addonVariantIDs, ", "))).
		WithDetails(map[string]any{"addon_variant_ids": addonVariantIDs})
}

package cart

import (
	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/addoncart"
)

// AddonSelectionRequest is one requested addon variant. Quantity is the
// per-unit multiplier; omitted means 1.
type AddonSelectionRequest struct {
	AddonVariantID uuid.UUID `json:"addon_variant_id" validate:"required"`
	Quantity       *int      `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type AddAddonLineItemRequest struct {
	VariantID uuid.UUID               `json:"variant_id" validate:"required"`
	Quantity  int                     `json:"quantity" validate:"required,min=1"`
	Addons    []AddonSelectionRequest `json:"addons" validate:"dive"`
}

// UpdateAddonLineItemRequest edits an existing configuration. A nil field
// keeps the stored value; an empty addons array strips every addon.
type UpdateAddonLineItemRequest struct {
	Quantity *int                     `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Addons   *[]AddonSelectionRequest `json:"addons,omitempty" validate:"omitempty,dive"`
}

type RemoveAddonLineItemsRequest struct {
	LineItemIDs []uuid.UUID `json:"line_item_ids" validate:"required,min=1"`
}

func toAddonSelections(requests []AddonSelectionRequest) []addoncart.AddonSelection {
	selections := make([]addoncart.AddonSelection, 0, len(requests))
	for _, req := range requests {
		selections = append(selections, addoncart.AddonSelection{
			AddonVariantID: req.AddonVariantID,
			Quantity:       req.Quantity,
		})
	}
	return selections
}

func toAddSelectionInput(payload AddAddonLineItemRequest) addoncart.AddSelectionInput {
	return addoncart.AddSelectionInput{
		BaseVariantID: payload.VariantID,
		Quantity:      payload.Quantity,
		Addons:        toAddonSelections(payload.Addons),
	}
}

func toUpdateSelectionInput(payload UpdateAddonLineItemRequest) addoncart.UpdateSelectionInput {
	input := addoncart.UpdateSelectionInput{Quantity: payload.Quantity}
	if payload.Addons != nil {
		selections := toAddonSelections(*payload.Addons)
		input.Addons = &selections
	}
	return input
}

package addoncart

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

// AddonSelection is one requested addon with an optional per-unit quantity
// override. A nil Quantity means "previous stored multiplier, else 1".
type AddonSelection struct {
	AddonVariantID uuid.UUID
	Quantity       *int
}

// GroupRequest is the planner input for one addon configuration.
type GroupRequest struct {
	BaseVariantID uuid.UUID
	BaseQuantity  int
	// TargetItemID is set for updates: the base line item being edited.
	TargetItemID *uuid.UUID
	// AddonsProvided distinguishes "substitute the addon set entirely" from
	// "keep the previous addons" on update requests. Add requests always
	// provide their set.
	AddonsProvided bool
	Addons         []AddonSelection
}

// ItemCreate is a planned line item creation. Addon creates leave
// UnitPriceCents at zero; the pricing resolver fills it before mutation.
type ItemCreate struct {
	Title           string
	Thumbnail       *string
	VariantID       *uuid.UUID
	AddonVariantID  uuid.UUID
	PerUnitQuantity int
	Quantity        int
	UnitPriceCents  int
	Signature       string
	Metadata        map[string]any
}

// ItemUpdate is a planned line item mutation, carrying the previous row for
// compensation.
type ItemUpdate struct {
	ID             uuid.UUID
	Quantity       int
	UnitPriceCents int
	Metadata       map[string]any
	Previous       models.LineItem
}

// Plan holds the four disjoint action lists plus deletions by id. The planner
// performs no I/O and is fully deterministic given its inputs.
type Plan struct {
	CreateBaseItems  []ItemCreate
	UpdateBaseItems  []ItemUpdate
	CreateAddonItems []ItemCreate
	UpdateAddonItems []ItemUpdate
	DeleteItemIDs    []uuid.UUID
}

// Empty reports whether the plan contains no actions.
func (p *Plan) Empty() bool {
	return p == nil ||
		(len(p.CreateBaseItems) == 0 && len(p.UpdateBaseItems) == 0 &&
			len(p.CreateAddonItems) == 0 && len(p.UpdateAddonItems) == 0 &&
			len(p.DeleteItemIDs) == 0)
}

// PlanGroup diffs one requested configuration against the indexed cart state.
func PlanGroup(index *CartIndex, linkage Linkage, req GroupRequest) (*Plan, error) {
	if req.BaseQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base quantity cannot be negative")
	}
	entry, ok := linkage[req.BaseVariantID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeItemNotFound,
			fmt.Sprintf("product variant %s not found", req.BaseVariantID))
	}

	var target *BaseItem
	if req.TargetItemID != nil {
		target = index.BaseByID(*req.TargetItemID)
		if target == nil {
			return nil, pkgerrors.New(pkgerrors.CodeItemNotFound,
				fmt.Sprintf("line item %s not found in cart", *req.TargetItemID))
		}
	}

	final, err := resolveFinalSelections(index, target, req)
	if err != nil {
		return nil, err
	}

	finalIDs := make([]uuid.UUID, 0, len(final))
	for _, sel := range final {
		finalIDs = append(finalIDs, sel.AddonVariantID)
	}

	// Zeroed base or an explicitly empty addon set collapses the configuration
	// to a bare base item.
	collapse := req.BaseQuantity == 0 || (req.AddonsProvided && len(final) == 0)
	if collapse {
		finalIDs = nil
		final = nil
	}

	signature := BuildSignature(req.BaseVariantID, finalIDs)

	plan := &Plan{}
	baseQty := req.BaseQuantity
	sourceSig := signature

	existing := index.Group(signature)
	existingBase := (*BaseItem)(nil)
	if existing != nil {
		existingBase = existing.Base
	}

	switch {
	case target == nil && existingBase != nil:
		// Repeat add of an identical configuration merges quantities.
		baseQty = existingBase.Quantity + req.BaseQuantity
		plan.UpdateBaseItems = append(plan.UpdateBaseItems, ItemUpdate{
			ID:             existingBase.ID,
			Quantity:       baseQty,
			UnitPriceCents: existingBase.UnitPriceCents,
			Metadata:       baseMetadata(signature),
			Previous:       existingBase.Raw,
		})

	case target == nil:
		plan.CreateBaseItems = append(plan.CreateBaseItems, ItemCreate{
			Title:     entry.Title,
			Thumbnail: entry.Thumbnail,
			VariantID: &req.BaseVariantID,
			Quantity:  baseQty,
			Signature: signature,
			Metadata:  baseMetadata(signature),
		})

	case existingBase != nil && existingBase.ID != target.ID:
		// The edited configuration now matches another one already in the
		// cart: merge into it and drop the edited group entirely.
		baseQty = existingBase.Quantity + req.BaseQuantity
		plan.UpdateBaseItems = append(plan.UpdateBaseItems, ItemUpdate{
			ID:             existingBase.ID,
			Quantity:       baseQty,
			UnitPriceCents: existingBase.UnitPriceCents,
			Metadata:       baseMetadata(signature),
			Previous:       existingBase.Raw,
		})
		plan.DeleteItemIDs = append(plan.DeleteItemIDs, target.ID)
		for _, addon := range index.AddonsFor(target.Signature) {
			plan.DeleteItemIDs = append(plan.DeleteItemIDs, addon.ID)
		}

	default:
		// Update in place; the signature may change when the addon set does.
		plan.UpdateBaseItems = append(plan.UpdateBaseItems, ItemUpdate{
			ID:             target.ID,
			Quantity:       baseQty,
			UnitPriceCents: target.UnitPriceCents,
			Metadata:       baseMetadata(signature),
			Previous:       target.Raw,
		})
		sourceSig = target.Signature
	}

	planAddonActions(plan, index, entry, final, signature, sourceSig, baseQty)
	return plan, nil
}

// resolveFinalSelections produces the final intended addon set with per-unit
// quantities resolved: explicit override, else previously stored multiplier,
// else 1.
func resolveFinalSelections(index *CartIndex, target *BaseItem, req GroupRequest) ([]AddonSelection, error) {
	previous := map[uuid.UUID]int{}
	switch {
	case target != nil:
		for _, addon := range index.AddonsFor(target.Signature) {
			previous[addon.AddonVariantID] = addon.PerUnitQuantity
		}
	case req.AddonsProvided:
		// An add may merge into an existing identical configuration; its
		// stored multipliers back omitted per-unit quantities. The signature
		// depends only on the addon ids, so it is known before resolution.
		ids := make([]uuid.UUID, 0, len(req.Addons))
		distinct := map[uuid.UUID]struct{}{}
		for _, sel := range req.Addons {
			if _, dup := distinct[sel.AddonVariantID]; dup {
				continue
			}
			distinct[sel.AddonVariantID] = struct{}{}
			ids = append(ids, sel.AddonVariantID)
		}
		for _, addon := range index.AddonsFor(BuildSignature(req.BaseVariantID, ids)) {
			previous[addon.AddonVariantID] = addon.PerUnitQuantity
		}
	}

	if !req.AddonsProvided {
		if target == nil {
			return nil, nil
		}
		final := make([]AddonSelection, 0, len(previous))
		for _, addon := range index.AddonsFor(target.Signature) {
			perUnit := addon.PerUnitQuantity
			final = append(final, AddonSelection{AddonVariantID: addon.AddonVariantID, Quantity: &perUnit})
		}
		return final, nil
	}

	seen := map[uuid.UUID]int{}
	var order []uuid.UUID
	for _, sel := range req.Addons {
		perUnit := 1
		if sel.Quantity != nil {
			if *sel.Quantity < 1 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					"addon per-unit quantity must be at least 1")
			}
			perUnit = *sel.Quantity
		} else if stored, ok := previous[sel.AddonVariantID]; ok {
			perUnit = stored
		}
		if _, dup := seen[sel.AddonVariantID]; !dup {
			order = append(order, sel.AddonVariantID)
		}
		seen[sel.AddonVariantID] = perUnit
	}

	final := make([]AddonSelection, 0, len(order))
	for _, id := range order {
		perUnit := seen[id]
		final = append(final, AddonSelection{AddonVariantID: id, Quantity: &perUnit})
	}
	return final, nil
}

// planAddonActions diffs the final addon set against the addon items stored
// under sourceSig, scaling every quantity by the resolved base quantity.
func planAddonActions(plan *Plan, index *CartIndex, entry VariantLinkageEntry, final []AddonSelection, signature, sourceSig string, baseQty int) {
	current := map[uuid.UUID]AddonItem{}
	for _, addon := range index.AddonsFor(sourceSig) {
		current[addon.AddonVariantID] = addon
	}

	wanted := map[uuid.UUID]struct{}{}
	for _, sel := range final {
		wanted[sel.AddonVariantID] = struct{}{}
		perUnit := 1
		if sel.Quantity != nil {
			perUnit = *sel.Quantity
		}
		quantity := baseQty * perUnit

		if existing, ok := current[sel.AddonVariantID]; ok {
			plan.UpdateAddonItems = append(plan.UpdateAddonItems, ItemUpdate{
				ID:             existing.ID,
				Quantity:       quantity,
				UnitPriceCents: existing.UnitPriceCents,
				Metadata:       addonMetadata(signature, sel.AddonVariantID, perUnit),
				Previous:       existing.Raw,
			})
			continue
		}

		detail := entry.Allowed[sel.AddonVariantID]
		title := detail.Title
		if detail.AddonTitle != "" {
			title = fmt.Sprintf("%s (%s)", detail.AddonTitle, detail.Title)
		}
		plan.CreateAddonItems = append(plan.CreateAddonItems, ItemCreate{
			Title:           title,
			Thumbnail:       detail.Thumbnail,
			AddonVariantID:  sel.AddonVariantID,
			PerUnitQuantity: perUnit,
			Quantity:        quantity,
			Signature:       signature,
			Metadata:        addonMetadata(signature, sel.AddonVariantID, perUnit),
		})
	}

	for _, addon := range index.AddonsFor(sourceSig) {
		if _, keep := wanted[addon.AddonVariantID]; !keep {
			plan.DeleteItemIDs = append(plan.DeleteItemIDs, addon.ID)
		}
	}
}

// PlanRemoval deletes the referenced base items and cascades to every addon
// item sharing their signatures, and nothing else.
func PlanRemoval(index *CartIndex, itemIDs []uuid.UUID) (*Plan, error) {
	plan := &Plan{}
	scheduled := map[uuid.UUID]struct{}{}

	for _, id := range itemIDs {
		if _, ok := index.Item(id); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeItemNotFound,
				fmt.Sprintf("line item %s not found in cart", id))
		}

		if _, dup := scheduled[id]; !dup {
			scheduled[id] = struct{}{}
			plan.DeleteItemIDs = append(plan.DeleteItemIDs, id)
		}

		base := index.BaseByID(id)
		if base == nil {
			// Addon or plain item: no cascade.
			continue
		}
		for _, addon := range index.AddonsFor(base.Signature) {
			if _, dup := scheduled[addon.ID]; dup {
				continue
			}
			scheduled[addon.ID] = struct{}{}
			plan.DeleteItemIDs = append(plan.DeleteItemIDs, addon.ID)
		}
	}
	return plan, nil
}

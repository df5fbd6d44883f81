package addoncart

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
)

func intPtr(v int) *int {
	return &v
}

func TestPlanGroupCreatesBaseAndAddons(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	a := uuid.New()
	b := uuid.New()
	linkage := testLinkage(base, a, b)
	idx := BuildIndex(nil)

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   2,
		AddonsProvided: true,
		Addons: []AddonSelection{
			{AddonVariantID: a},
			{AddonVariantID: b, Quantity: intPtr(3)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.CreateBaseItems) != 1 || len(plan.CreateAddonItems) != 2 {
		t.Fatalf("expected 1 base and 2 addon creations, got %d/%d",
			len(plan.CreateBaseItems), len(plan.CreateAddonItems))
	}
	if len(plan.UpdateBaseItems)+len(plan.UpdateAddonItems)+len(plan.DeleteItemIDs) != 0 {
		t.Fatal("fresh configuration must not plan updates or deletions")
	}

	sig := BuildSignature(base, []uuid.UUID{a, b})
	baseCreate := plan.CreateBaseItems[0]
	if baseCreate.Signature != sig || baseCreate.Quantity != 2 {
		t.Fatalf("unexpected base creation %+v", baseCreate)
	}
	if baseCreate.Metadata[models.MetaVariantAddonSignature] != sig {
		t.Fatal("base metadata must carry the signature")
	}

	byAddon := map[uuid.UUID]ItemCreate{}
	for _, create := range plan.CreateAddonItems {
		byAddon[create.AddonVariantID] = create
	}
	if got := byAddon[a]; got.Quantity != 2 || got.PerUnitQuantity != 1 {
		t.Fatalf("addon a should scale 2x1, got %+v", got)
	}
	if got := byAddon[b]; got.Quantity != 6 || got.PerUnitQuantity != 3 {
		t.Fatalf("addon b should scale 2x3, got %+v", got)
	}
	for _, create := range plan.CreateAddonItems {
		if create.UnitPriceCents != 0 {
			t.Fatal("addon creations must leave price unresolved for the pricing resolver")
		}
		if create.Metadata[models.MetaVariantAddonSignature] != sig {
			t.Fatal("addon metadata must share the base signature")
		}
	}
}

func TestPlanGroupMergesIdenticalConfiguration(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	sig := BuildSignature(base, []uuid.UUID{a})

	existingBase := baseLineItem(cartID, base, 1, sig)
	existingAddon := addonLineItem(cartID, a, 1, 1, sig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   1,
		AddonsProvided: true,
		Addons:         []AddonSelection{{AddonVariantID: a}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.CreateBaseItems)+len(plan.CreateAddonItems) != 0 {
		t.Fatal("identical configuration must merge, not duplicate")
	}
	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Quantity != 2 {
		t.Fatalf("base quantity should sum to 2, got %+v", plan.UpdateBaseItems)
	}
	if len(plan.UpdateAddonItems) != 1 || plan.UpdateAddonItems[0].Quantity != 2 {
		t.Fatalf("addon quantity should rescale to 2, got %+v", plan.UpdateAddonItems)
	}
	if len(plan.DeleteItemIDs) != 0 {
		t.Fatal("merge must not delete anything")
	}
}

func TestPlanGroupMergeKeepsStoredMultiplier(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	sig := BuildSignature(base, []uuid.UUID{a})

	existingBase := baseLineItem(cartID, base, 1, sig)
	existingAddon := addonLineItem(cartID, a, 2, 2, sig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	// No per-unit quantity in the request: the stored multiplier applies.
	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   1,
		AddonsProvided: true,
		Addons:         []AddonSelection{{AddonVariantID: a}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Quantity != 2 {
		t.Fatalf("base quantity should sum to 2, got %+v", plan.UpdateBaseItems)
	}
	if len(plan.UpdateAddonItems) != 1 {
		t.Fatalf("want one addon update, got %+v", plan.UpdateAddonItems)
	}
	update := plan.UpdateAddonItems[0]
	if update.Quantity != 4 {
		t.Fatalf("addon quantity should scale by the stored multiplier to 4, got %d", update.Quantity)
	}
	if got := update.Metadata[models.MetaAddonVariantQuantity]; got != 2 {
		t.Fatalf("stored multiplier should survive the merge, got %v", got)
	}
}

func TestPlanGroupRescalesOnBaseQuantityChange(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	sig := BuildSignature(base, []uuid.UUID{a})

	existingBase := baseLineItem(cartID, base, 2, sig)
	existingAddon := addonLineItem(cartID, a, 6, 3, sig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID: base,
		BaseQuantity:  5,
		TargetItemID:  &existingBase.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Quantity != 5 {
		t.Fatalf("base should update to 5, got %+v", plan.UpdateBaseItems)
	}
	if len(plan.UpdateAddonItems) != 1 {
		t.Fatalf("expected 1 addon update, got %d", len(plan.UpdateAddonItems))
	}
	update := plan.UpdateAddonItems[0]
	if update.Quantity != 15 {
		t.Fatalf("addon should rescale to 5x3=15, got %d", update.Quantity)
	}
	if update.Metadata[models.MetaAddonVariantQuantity] != 3 {
		t.Fatalf("per-unit multiplier must be preserved, got %v",
			update.Metadata[models.MetaAddonVariantQuantity])
	}
}

func TestPlanGroupSubstitutesAddonSet(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	oldAddon := uuid.New()
	newAddon := uuid.New()
	linkage := testLinkage(base, oldAddon, newAddon)
	oldSig := BuildSignature(base, []uuid.UUID{oldAddon})

	existingBase := baseLineItem(cartID, base, 2, oldSig)
	existingAddon := addonLineItem(cartID, oldAddon, 2, 1, oldSig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   2,
		TargetItemID:   &existingBase.ID,
		AddonsProvided: true,
		Addons:         []AddonSelection{{AddonVariantID: newAddon}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newSig := BuildSignature(base, []uuid.UUID{newAddon})
	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Metadata[models.MetaVariantAddonSignature] != newSig {
		t.Fatalf("base must move to the new signature, got %+v", plan.UpdateBaseItems)
	}
	if len(plan.CreateAddonItems) != 1 || plan.CreateAddonItems[0].AddonVariantID != newAddon {
		t.Fatalf("expected creation of the new addon, got %+v", plan.CreateAddonItems)
	}
	if len(plan.DeleteItemIDs) != 1 || plan.DeleteItemIDs[0] != existingAddon.ID {
		t.Fatalf("expected deletion of the replaced addon, got %v", plan.DeleteItemIDs)
	}
}

func TestPlanGroupMergesIntoOtherConfigurationOnUpdate(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	b := uuid.New()
	linkage := testLinkage(base, a, b)

	sigA := BuildSignature(base, []uuid.UUID{a})
	sigB := BuildSignature(base, []uuid.UUID{b})

	baseA := baseLineItem(cartID, base, 1, sigA)
	addonA := addonLineItem(cartID, a, 1, 1, sigA)
	baseB := baseLineItem(cartID, base, 2, sigB)
	addonB := addonLineItem(cartID, b, 2, 1, sigB)
	idx := BuildIndex([]models.LineItem{baseA, addonA, baseB, addonB})

	// Editing configuration A to use addon b makes it identical to B.
	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   1,
		TargetItemID:   &baseA.ID,
		AddonsProvided: true,
		Addons:         []AddonSelection{{AddonVariantID: b}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].ID != baseB.ID || plan.UpdateBaseItems[0].Quantity != 3 {
		t.Fatalf("expected configuration B's base to absorb quantity 3, got %+v", plan.UpdateBaseItems)
	}
	if len(plan.UpdateAddonItems) != 1 || plan.UpdateAddonItems[0].ID != addonB.ID || plan.UpdateAddonItems[0].Quantity != 3 {
		t.Fatalf("expected configuration B's addon to rescale to 3, got %+v", plan.UpdateAddonItems)
	}

	deleted := map[uuid.UUID]bool{}
	for _, id := range plan.DeleteItemIDs {
		deleted[id] = true
	}
	if !deleted[baseA.ID] || !deleted[addonA.ID] || len(deleted) != 2 {
		t.Fatalf("expected deletion of configuration A only, got %v", plan.DeleteItemIDs)
	}
	if len(plan.CreateBaseItems)+len(plan.CreateAddonItems) != 0 {
		t.Fatal("merging must not create new items")
	}
}

func TestPlanGroupZeroQuantityCollapsesAddons(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	sig := BuildSignature(base, []uuid.UUID{a})

	existingBase := baseLineItem(cartID, base, 2, sig)
	existingAddon := addonLineItem(cartID, a, 2, 1, sig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID: base,
		BaseQuantity:  0,
		TargetItemID:  &existingBase.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.DeleteItemIDs) != 1 || plan.DeleteItemIDs[0] != existingAddon.ID {
		t.Fatalf("zeroing the base must delete its addons, got %v", plan.DeleteItemIDs)
	}
	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Quantity != 0 {
		t.Fatalf("base item should remain at quantity 0, got %+v", plan.UpdateBaseItems)
	}
	emptySig := BuildSignature(base, nil)
	if plan.UpdateBaseItems[0].Metadata[models.MetaVariantAddonSignature] != emptySig {
		t.Fatal("collapsed base must carry the empty-set signature")
	}
}

func TestPlanGroupExplicitEmptyAddonSet(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	sig := BuildSignature(base, []uuid.UUID{a})

	existingBase := baseLineItem(cartID, base, 2, sig)
	existingAddon := addonLineItem(cartID, a, 2, 1, sig)
	idx := BuildIndex([]models.LineItem{existingBase, existingAddon})

	plan, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   2,
		TargetItemID:   &existingBase.ID,
		AddonsProvided: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.DeleteItemIDs) != 1 || plan.DeleteItemIDs[0] != existingAddon.ID {
		t.Fatalf("explicit empty set must delete every addon, got %v", plan.DeleteItemIDs)
	}
	if len(plan.UpdateBaseItems) != 1 || plan.UpdateBaseItems[0].Quantity != 2 {
		t.Fatalf("base quantity should stay 2, got %+v", plan.UpdateBaseItems)
	}
}

func TestPlanGroupRejectsUnknownTarget(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	linkage := testLinkage(base)
	idx := BuildIndex(nil)
	missing := uuid.New()

	_, err := PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID: base,
		BaseQuantity:  1,
		TargetItemID:  &missing,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeItemNotFound {
		t.Fatalf("expected CodeItemNotFound, got %v", err)
	}
}

func TestPlanGroupRejectsInvalidQuantities(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	a := uuid.New()
	linkage := testLinkage(base, a)
	idx := BuildIndex(nil)

	_, err := PlanGroup(idx, linkage, GroupRequest{BaseVariantID: base, BaseQuantity: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("negative base quantity should fail validation, got %v", err)
	}

	_, err = PlanGroup(idx, linkage, GroupRequest{
		BaseVariantID:  base,
		BaseQuantity:   1,
		AddonsProvided: true,
		Addons:         []AddonSelection{{AddonVariantID: a, Quantity: intPtr(0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero per-unit quantity should fail validation, got %v", err)
	}
}

func TestPlanRemovalCascadesBySignatureOnly(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	base := uuid.New()
	a := uuid.New()
	b := uuid.New()

	sigA := BuildSignature(base, []uuid.UUID{a})
	sigB := BuildSignature(base, []uuid.UUID{b})

	baseA := baseLineItem(cartID, base, 1, sigA)
	addonA := addonLineItem(cartID, a, 1, 1, sigA)
	baseB := baseLineItem(cartID, base, 1, sigB)
	addonB := addonLineItem(cartID, b, 1, 1, sigB)
	idx := BuildIndex([]models.LineItem{baseA, addonA, baseB, addonB})

	plan, err := PlanRemoval(idx, []uuid.UUID{baseA.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted := map[uuid.UUID]bool{}
	for _, id := range plan.DeleteItemIDs {
		deleted[id] = true
	}
	if !deleted[baseA.ID] || !deleted[addonA.ID] {
		t.Fatalf("expected base A and its addon deleted, got %v", plan.DeleteItemIDs)
	}
	if deleted[baseB.ID] || deleted[addonB.ID] {
		t.Fatalf("configuration B must be untouched, got %v", plan.DeleteItemIDs)
	}
}

func TestPlanRemovalUnknownItem(t *testing.T) {
	t.Parallel()

	idx := BuildIndex(nil)
	_, err := PlanRemoval(idx, []uuid.UUID{uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeItemNotFound {
		t.Fatalf("expected CodeItemNotFound, got %v", err)
	}
}

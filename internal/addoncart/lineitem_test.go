package addoncart

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

func baseLineItem(cartID, variantID uuid.UUID, quantity int, signature string) models.LineItem {
	return models.LineItem{
		ID:        uuid.New(),
		CartID:    cartID,
		VariantID: &variantID,
		Title:     "Base",
		Quantity:  quantity,
		Metadata:  baseMetadata(signature),
	}
}

func addonLineItem(cartID, addonVariantID uuid.UUID, quantity, perUnit int, signature string) models.LineItem {
	return models.LineItem{
		ID:       uuid.New(),
		CartID:   cartID,
		Title:    "Addon",
		Quantity: quantity,
		Metadata: addonMetadata(signature, addonVariantID, perUnit),
	}
}

func TestBuildIndexClassifiesItems(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	variantID := uuid.New()
	addonVariantID := uuid.New()
	sig := BuildSignature(variantID, []uuid.UUID{addonVariantID})

	base := baseLineItem(cartID, variantID, 2, sig)
	addon := addonLineItem(cartID, addonVariantID, 4, 2, sig)
	plain := models.LineItem{ID: uuid.New(), CartID: cartID, Title: "Soda", Quantity: 1}

	idx := BuildIndex([]models.LineItem{base, addon, plain})

	group := idx.Group(sig)
	if group == nil || group.Base == nil {
		t.Fatal("expected an indexed group with a base item")
	}
	if group.Base.ID != base.ID || group.Base.VariantID != variantID {
		t.Fatalf("unexpected base item %+v", group.Base)
	}
	if len(group.Addons) != 1 {
		t.Fatalf("expected 1 addon item, got %d", len(group.Addons))
	}
	got := group.Addons[0]
	if got.AddonVariantID != addonVariantID || got.Quantity != 4 || got.PerUnitQuantity != 2 {
		t.Fatalf("unexpected addon item %+v", got)
	}

	if idx.BaseByID(base.ID) == nil {
		t.Fatal("base item should be reachable by id")
	}
	if idx.BaseByID(plain.ID) != nil {
		t.Fatal("plain item must not be indexed as a base item")
	}
	if _, ok := idx.Item(plain.ID); !ok {
		t.Fatal("plain item should still be reachable by id")
	}
}

func TestBuildIndexToleratesJSONNumericShapes(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	variantID := uuid.New()
	addonVariantID := uuid.New()
	sig := BuildSignature(variantID, []uuid.UUID{addonVariantID})

	// jsonb round-trips integers as float64.
	addon := models.LineItem{
		ID:       uuid.New(),
		CartID:   cartID,
		Title:    "Addon",
		Quantity: 6,
		Metadata: map[string]any{
			models.MetaVariantAddonSignature: sig,
			models.MetaAddonVariantID:        addonVariantID.String(),
			models.MetaAddonVariantQuantity:  float64(3),
		},
	}

	idx := BuildIndex([]models.LineItem{addon})
	addons := idx.AddonsFor(sig)
	if len(addons) != 1 {
		t.Fatalf("expected 1 addon, got %d", len(addons))
	}
	if addons[0].PerUnitQuantity != 3 {
		t.Fatalf("expected per-unit quantity 3, got %d", addons[0].PerUnitQuantity)
	}
}

func TestBuildIndexDefaultsPerUnitQuantity(t *testing.T) {
	t.Parallel()

	cartID := uuid.New()
	variantID := uuid.New()
	addonVariantID := uuid.New()
	sig := BuildSignature(variantID, []uuid.UUID{addonVariantID})

	addon := models.LineItem{
		ID:       uuid.New(),
		CartID:   cartID,
		Title:    "Addon",
		Quantity: 2,
		Metadata: map[string]any{
			models.MetaVariantAddonSignature: sig,
			models.MetaAddonVariantID:        addonVariantID.String(),
		},
	}

	idx := BuildIndex([]models.LineItem{addon})
	addons := idx.AddonsFor(sig)
	if len(addons) != 1 || addons[0].PerUnitQuantity != 1 {
		t.Fatalf("expected per-unit quantity to default to 1, got %+v", addons)
	}
}

func TestBuildIndexSkipsMalformedAddonMetadata(t *testing.T) {
	t.Parallel()

	item := models.LineItem{
		ID:       uuid.New(),
		CartID:   uuid.New(),
		Title:    "Broken",
		Quantity: 1,
		Metadata: map[string]any{
			models.MetaVariantAddonSignature: "sig",
			models.MetaAddonVariantID:        "not-a-uuid",
		},
	}

	idx := BuildIndex([]models.LineItem{item})
	if len(idx.AddonsFor("sig")) != 0 {
		t.Fatal("malformed addon metadata must not be indexed")
	}
	if _, ok := idx.Item(item.ID); !ok {
		t.Fatal("malformed item should still be reachable by id")
	}
}

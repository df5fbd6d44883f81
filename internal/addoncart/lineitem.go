package addoncart

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
)

// BaseItem is the parsed view of a line item that purchases a product variant
// and anchors an addon configuration.
type BaseItem struct {
	ID             uuid.UUID
	VariantID      uuid.UUID
	Title          string
	Quantity       int
	UnitPriceCents int
	Signature      string
	Raw            models.LineItem
}

// AddonItem is the parsed view of a line item representing one addon variant
// attached to a base item. PerUnitQuantity is the caller-requested multiplier;
// the stored Quantity always equals base quantity times PerUnitQuantity.
type AddonItem struct {
	ID              uuid.UUID
	AddonVariantID  uuid.UUID
	Title           string
	Quantity        int
	PerUnitQuantity int
	UnitPriceCents  int
	Signature       string
	Raw             models.LineItem
}

// Group is one addon configuration in a cart: the base item plus every addon
// item sharing its signature.
type Group struct {
	Base   *BaseItem
	Addons []AddonItem
}

// CartIndex is a single-pass index of a cart's line items keyed by signature.
// Items without addon bookkeeping metadata are tracked by id only.
type CartIndex struct {
	groups   map[string]*Group
	baseByID map[uuid.UUID]*BaseItem
	itemByID map[uuid.UUID]models.LineItem
}

// BuildIndex classifies every line item as a base item, an addon item, or a
// plain item, in one pass.
func BuildIndex(items []models.LineItem) *CartIndex {
	idx := &CartIndex{
		groups:   map[string]*Group{},
		baseByID: map[uuid.UUID]*BaseItem{},
		itemByID: map[uuid.UUID]models.LineItem{},
	}
	for _, item := range items {
		idx.itemByID[item.ID] = item

		sig, ok := item.AddonSignature()
		if !ok {
			continue
		}

		if item.IsAddonItem() {
			addonVariantID, ok := metaUUID(item.Metadata, models.MetaAddonVariantID)
			if !ok {
				continue
			}
			addon := AddonItem{
				ID:              item.ID,
				AddonVariantID:  addonVariantID,
				Title:           item.Title,
				Quantity:        item.Quantity,
				PerUnitQuantity: metaInt(item.Metadata, models.MetaAddonVariantQuantity, 1),
				UnitPriceCents:  item.UnitPriceCents,
				Signature:       sig,
				Raw:             item,
			}
			group := idx.groupFor(sig)
			group.Addons = append(group.Addons, addon)
			continue
		}

		if item.VariantID == nil {
			continue
		}
		base := &BaseItem{
			ID:             item.ID,
			VariantID:      *item.VariantID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Signature:      sig,
			Raw:            item,
		}
		idx.groupFor(sig).Base = base
		idx.baseByID[item.ID] = base
	}
	return idx
}

func (x *CartIndex) groupFor(signature string) *Group {
	group, ok := x.groups[signature]
	if !ok {
		group = &Group{}
		x.groups[signature] = group
	}
	return group
}

// Group returns the configuration stored under the signature, or nil.
func (x *CartIndex) Group(signature string) *Group {
	return x.groups[signature]
}

// BaseByID returns the base item with the given line item id, or nil.
func (x *CartIndex) BaseByID(id uuid.UUID) *BaseItem {
	return x.baseByID[id]
}

// Item returns the raw line item with the given id.
func (x *CartIndex) Item(id uuid.UUID) (models.LineItem, bool) {
	item, ok := x.itemByID[id]
	return item, ok
}

// AddonsFor returns the addon items stored under the signature.
func (x *CartIndex) AddonsFor(signature string) []AddonItem {
	group, ok := x.groups[signature]
	if !ok {
		return nil
	}
	return group.Addons
}

func baseMetadata(signature string) map[string]any {
	return map[string]any{
		models.MetaVariantAddonSignature: signature,
	}
}

func addonMetadata(signature string, addonVariantID uuid.UUID, perUnit int) map[string]any {
	return map[string]any{
		models.MetaVariantAddonSignature: signature,
		models.MetaAddonVariantID:        addonVariantID.String(),
		models.MetaAddonVariantQuantity:  perUnit,
	}
}

func metaUUID(metadata map[string]any, key string) (uuid.UUID, bool) {
	raw, ok := metadata[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// metaInt tolerates the numeric shapes jsonb round-trips produce.
func metaInt(metadata map[string]any, key string, fallback int) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

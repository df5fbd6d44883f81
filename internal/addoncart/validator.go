package addoncart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/catalog"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
)

// Linkage is the allow-map produced by the catalog graph query: per base
// variant, the addon variants its product can attach.
type Linkage = map[uuid.UUID]catalog.VariantLinkage

// VariantLinkageEntry is one base variant's allow-map entry.
type VariantLinkageEntry = catalog.VariantLinkage

// ValidateCombination checks every requested (base variant, addon variant)
// pair against the linkage. All violations are collected into a single
// InvalidCombination error so callers see the full offending list at once.
// A base variant absent from the linkage does not exist at all.
func ValidateCombination(linkage Linkage, requested map[uuid.UUID][]uuid.UUID) error {
	var missing []string
	var offending []string

	baseIDs := make([]uuid.UUID, 0, len(requested))
	for baseID := range requested {
		baseIDs = append(baseIDs, baseID)
	}
	sort.Slice(baseIDs, func(i, j int) bool { return baseIDs[i].String() < baseIDs[j].String() })

	for _, baseID := range baseIDs {
		entry, ok := linkage[baseID]
		if !ok {
			missing = append(missing, baseID.String())
			continue
		}
		for _, addonID := range requested[baseID] {
			if !entry.Allows(addonID) {
				offending = append(offending, fmt.Sprintf("%s/%s", addonID, baseID))
			}
		}
	}

	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeItemNotFound,
			fmt.Sprintf("product variants not found: %s", strings.Join(missing, ", "))).
			WithDetails(map[string]any{"variant_ids": missing})
	}
	if len(offending) > 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidCombination,
			fmt.Sprintf("addon variants not attachable to their base variants (addon/variant): %s",
				strings.Join(offending, ", "))).
			WithDetails(map[string]any{"pairs": offending})
	}
	return nil
}

package addoncart

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	signatureSeparator = "-"
	signatureDelimiter = ","
)

// BuildSignature produces the deterministic identity for one (base variant,
// addon set) configuration: the base variant id, a separator, then the addon
// variant ids sorted lexicographically and comma-joined. Quantity is not part
// of identity. An empty addon set yields "<base>-", distinct from any
// non-empty configuration.
func BuildSignature(baseVariantID uuid.UUID, addonVariantIDs []uuid.UUID) string {
	ids := make([]string, 0, len(addonVariantIDs))
	for _, id := range addonVariantIDs {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(baseVariantID.String())
	b.WriteString(signatureSeparator)
	b.WriteString(strings.Join(ids, signatureDelimiter))
	return b.String()
}

package enums

import "fmt"

// AddonStatus represents the publication lifecycle of a catalog addon.
type AddonStatus string

const (
	AddonStatusDraft     AddonStatus = "draft"
	AddonStatusPublished AddonStatus = "published"
	AddonStatusRejected  AddonStatus = "rejected"
)

var validAddonStatuses = []AddonStatus{
	AddonStatusDraft,
	AddonStatusPublished,
	AddonStatusRejected,
}

// String implements fmt.Stringer.
func (s AddonStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AddonStatus.
func (s AddonStatus) IsValid() bool {
	for _, candidate := range validAddonStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAddonStatus converts raw input into an AddonStatus.
func ParseAddonStatus(value string) (AddonStatus, error) {
	for _, candidate := range validAddonStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid addon status %q", value)
}

package enums

import "fmt"

// VariationMode controls where a variation group sources its options from.
type VariationMode string

const (
	VariationModeCustom         VariationMode = "custom"
	VariationModeExisting       VariationMode = "existing"
	VariationModeSingleCategory VariationMode = "single_category"
	VariationModeMultiCategory  VariationMode = "multi_category"
)

var validVariationModes = []VariationMode{
	VariationModeCustom,
	VariationModeExisting,
	VariationModeSingleCategory,
	VariationModeMultiCategory,
}

// String implements fmt.Stringer.
func (v VariationMode) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VariationMode.
func (v VariationMode) IsValid() bool {
	for _, candidate := range validVariationModes {
		if candidate == v {
			return true
		}
	}
	return false
}

// IsCategorySourced reports whether the mode resolves its options from
// category membership rather than an explicit option list.
func (v VariationMode) IsCategorySourced() bool {
	return v == VariationModeSingleCategory || v == VariationModeMultiCategory
}

// ParseVariationMode converts the raw string to VariationMode.
func ParseVariationMode(value string) (VariationMode, error) {
	for _, candidate := range validVariationModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variation mode %q", value)
}

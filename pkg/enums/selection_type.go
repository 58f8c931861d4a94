package enums

import (
	"fmt"
	"strings"
)

// SelectionType is the cardinality rule governing how many options of a
// variation group a customer may choose. Codes follow a prefix convention:
// anything starting with "single" allows exactly one pick, anything starting
// with "multi" allows one or more, bounded by the group's multi limit.
type SelectionType string

const (
	SelectionTypeSingleChoice   SelectionType = "single_choice"
	SelectionTypeSingleRequired SelectionType = "single_required"
	SelectionTypeMultiChoice    SelectionType = "multi_choice"
	SelectionTypeMultiLimited   SelectionType = "multi_limited"
)

var validSelectionTypes = []SelectionType{
	SelectionTypeSingleChoice,
	SelectionTypeSingleRequired,
	SelectionTypeMultiChoice,
	SelectionTypeMultiLimited,
}

// String implements fmt.Stringer.
func (s SelectionType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SelectionType.
func (s SelectionType) IsValid() bool {
	for _, candidate := range validSelectionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsSingle reports whether the code keeps exactly one option selected.
func (s SelectionType) IsSingle() bool {
	return strings.HasPrefix(string(s), "single")
}

// IsMulti reports whether the code allows more than one selected option.
func (s SelectionType) IsMulti() bool {
	return strings.HasPrefix(string(s), "multi")
}

// ParseSelectionType converts the raw string to SelectionType.
func ParseSelectionType(value string) (SelectionType, error) {
	for _, candidate := range validSelectionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid selection type %q", value)
}

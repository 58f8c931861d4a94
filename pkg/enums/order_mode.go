package enums

import "fmt"

// OrderMode distinguishes immediate orders from scheduled pickups.
type OrderMode string

const (
	OrderModeNow       OrderMode = "now"
	OrderModeScheduled OrderMode = "scheduled"
)

var validOrderModes = []OrderMode{
	OrderModeNow,
	OrderModeScheduled,
}

// String implements fmt.Stringer.
func (o OrderMode) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderMode.
func (o OrderMode) IsValid() bool {
	for _, candidate := range validOrderModes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderMode converts the raw string to OrderMode.
func ParseOrderMode(value string) (OrderMode, error) {
	for _, candidate := range validOrderModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order mode %q", value)
}

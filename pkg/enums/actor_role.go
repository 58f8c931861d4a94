package enums

import "fmt"

// ActorRole identifies which side of the counter the authenticated user is on.
type ActorRole string

const (
	ActorRoleConcessionaire ActorRole = "concessionaire"
	ActorRoleCustomer       ActorRole = "customer"
)

var validActorRoles = []ActorRole{
	ActorRoleConcessionaire,
	ActorRoleCustomer,
}

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorRole converts the raw string to ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}

package enums

import "fmt"

// PrincipalRole distinguishes the two authenticated actor kinds. Retailers and
// administrators keep independent session state.
type PrincipalRole string

const (
	PrincipalRoleUser  PrincipalRole = "user"
	PrincipalRoleAdmin PrincipalRole = "admin"
)

var validPrincipalRoles = []PrincipalRole{
	PrincipalRoleUser,
	PrincipalRoleAdmin,
}

// String implements fmt.Stringer.
func (p PrincipalRole) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalRole.
func (p PrincipalRole) IsValid() bool {
	for _, candidate := range validPrincipalRoles {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalRole converts raw input into a PrincipalRole.
func ParsePrincipalRole(value string) (PrincipalRole, error) {
	for _, candidate := range validPrincipalRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal role %q", value)
}

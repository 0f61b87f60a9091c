package domain

import "errors"

// ErrUnknownRole indicates a role outside the supported set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of caller roles.
type Role int

// Supported roles.
const (
	RoleEmployee Role = iota + 1
	RoleCustomer
)

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleCustomer:
		return "Customer"
	}

	return "Unknown"
}

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Employee":
		return RoleEmployee, nil
	case "Customer":
		return RoleCustomer, nil
	}

	return 0, ErrUnknownRole
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if r != RoleEmployee && r != RoleCustomer {
		return nil, ErrUnknownRole
	}

	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}

	*r = role

	return nil
}

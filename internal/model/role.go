package model

import "fmt"

// Role is the closed set of roles a user can hold within a tenant.
type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleMaster Role = "master"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMaster:
		return true
	}
	return false
}

// ParseRole validates a role string coming from a request body. An empty
// string defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q, must be 'user', 'admin' or 'master'", s)
	}
	return r, nil
}

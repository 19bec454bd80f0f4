package model

import (
	"fmt"
	"strings"
)

// Role is the authorization tier of a user. Only the two constants below
// are valid; everything else is rejected by ParseRole.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleAdmin    Role = "admin"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleConsumer:
		return RoleConsumer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", raw)
	}
}

func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleConsumer:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

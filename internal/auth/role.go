package auth

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var ErrInvalidRole = errors.New("role must be one of user, manager, admin")

var roleRank = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Allows reports whether r grants at least the privileges of min.
func (r Role) Allows(min Role) bool {
	have, ok := roleRank[r]
	return ok && have >= roleRank[min]
}

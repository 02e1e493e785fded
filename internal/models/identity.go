package model

import (
	"strings"

	"task-tracker.com/task-tracker/internal/constants"
)

type Identity struct {
	UID   string         `json:"uid"`
	Email string         `json:"email"`
	Role  constants.Role `json:"role"`
}

// RoleForEmail classifies an account by its email: any address containing
// "admin" is an administrator. This is a client-side placeholder rule, not an
// authorization boundary.
func RoleForEmail(email string) constants.Role {
	if strings.Contains(email, "admin") {
		return constants.RoleAdmin
	}
	return constants.RoleEmployee
}

func (i Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

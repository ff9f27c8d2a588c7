package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleClerk   Role = "CLERK"
	RoleManager Role = "MANAGER"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Password string    `json:"-"`
	Role     Role      `json:"role"`
	Active   bool      `json:"active"`
}

package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleViewer     Role = "VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleViewer:
		return true
	}
	return false
}

type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) CanWrite() bool {
	return p.Role == RoleAdmin || p.Role == RoleAccountant
}

package auth

import "time"

type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// CanManage reports whether the role may change schedules, windows and employees.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleManager
}

type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Name           string
	OrganizationID *string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

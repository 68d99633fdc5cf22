package models

import "time"

// Roles, in descending order of privilege. Role checks go through the
// moderation policy table, never ad-hoc comparisons in handlers.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleEditor     = "EDITOR"
	RoleManager    = "MANAGER"
	RoleUser       = "USER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleManager, RoleUser:
		return true
	}
	return false
}

// UserModel represents a platform account.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Email         string     `json:"email"    gorm:"uniqueIndex;not null"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	Password      string     `json:"-"        gorm:"not null"`
	Role          string     `json:"role"     gorm:"index;default:'USER'"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

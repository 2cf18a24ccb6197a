package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEditor   UserRole = "editor"
	RoleViewer   UserRole = "viewer"
	RoleReviewer UserRole = "reviewer"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer, RoleReviewer:
		return true
	}
	return false
}

type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Username     string    `json:"username" gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	DisplayName  string    `json:"nama_lengkap" gorm:"column:nama_lengkap"`
	Role         UserRole  `json:"role" gorm:"column:role;not null;default:viewer"`
	CreatedAt    time.Time `json:"tanggal_dibuat" gorm:"column:tanggal_dibuat;autoCreateTime"`
}

func (User) TableName() string { return "pengguna" }

// UserIdentity is what a successful authentication hands back to callers.
type UserIdentity struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"nama_lengkap"`
	Role        UserRole `json:"role"`
}

func (u *User) Identity() *UserIdentity {
	return &UserIdentity{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

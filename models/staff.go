package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff roles. Owner and admin manage the office side, recept handles
// intake paperwork, workers run field installations.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleRecept = "recept"
	RoleWorker = "worker"
)

// Staff represents an employee account for the web panel or the field app.
type Staff struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Phone    string    `json:"phone,omitempty"`
	Role     string    `gorm:"not null;default:worker" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"isActive"`

	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	LastLogout *time.Time `json:"lastLogout,omitempty"`

	PasswordResetToken   *string    `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidRole reports whether role is one of the defined staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleRecept, RoleWorker:
		return true
	}
	return false
}

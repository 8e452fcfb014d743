package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationTypeAlert    = "alert"
	NotificationTypeMessage  = "message"
	NotificationTypeResponse = "response"
)

// Notification is an in-app message to a staff member. Replies reference the
// parent notification, forming a thread.
type Notification struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idNotification"`
	StaffID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"staffId"`
	SenderID *uuid.UUID `gorm:"type:uuid;index" json:"senderId,omitempty"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`
	WorkID   *uuid.UUID `gorm:"type:uuid;index" json:"workId,omitempty"`

	Type    string `gorm:"not null;default:message" json:"type"`
	Title   string `json:"title,omitempty"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"not null;default:false" json:"isRead"`

	Sender    *Staff         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Responses []Notification `gorm:"foreignKey:ParentID" json:"responses,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

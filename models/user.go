package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`

	TOTPSecret  string `gorm:"size:64" json:"-"`
	TOTPEnabled bool   `gorm:"default:false" json:"totp_enabled"`

	// Email preferences, resolved once at registration instead of being
	// probed per call site.
	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	EmailMilestones    bool `gorm:"default:true" json:"email_milestones"`
	EmailReminders     bool `gorm:"default:true" json:"email_reminders"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Invitations   []Invitation   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

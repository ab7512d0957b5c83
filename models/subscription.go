package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCancelled:
		return true
	}
	return false
}

type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Category string    `gorm:"size:50" json:"category"`

	// Cost is currency-agnostic; Cadence decides how it normalizes to a
	// monthly figure.
	Cost    float64 `gorm:"not null" json:"cost"`
	Cadence string  `gorm:"size:20;not null" json:"cadence"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	// NextChargeDate is derived: always the cadence-advance of the prior
	// charge date, never edited directly.
	NextChargeDate time.Time          `gorm:"not null" json:"next_charge_date"`
	Status         SubscriptionStatus `gorm:"size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

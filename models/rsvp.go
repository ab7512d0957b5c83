package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
	RSVPMaybe        RSVPStatus = "maybe"
)

// Valid reports whether s is one of the recognized response values.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPAttending, RSVPNotAttending, RSVPMaybe:
		return true
	}
	return false
}

type RSVP struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	GuestName string `gorm:"size:100;not null" json:"guest_name"`
	// GuestEmail is the dedupe key for repeat submissions. The unique index
	// is partial: an empty email never matches an existing record, so each
	// such submission stands alone.
	GuestEmail string `gorm:"size:120;uniqueIndex:idx_rsvp_invitation_guest,where:guest_email <> ''" json:"guest_email"`
	GuestPhone string `gorm:"size:20" json:"guest_phone"`

	Status     RSVPStatus `gorm:"size:20;not null" json:"status"`
	GuestCount int        `gorm:"default:1" json:"guest_count"`

	DietaryRequirements string `gorm:"type:text" json:"dietary_requirements"`
	SpecialRequests     string `gorm:"type:text" json:"special_requests"`
	Message             string `gorm:"type:text" json:"message"`

	InvitationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_invitation_guest" json:"invitation_id"`
	RespondedAt  time.Time `json:"responded_at"`

	Invitation Invitation `gorm:"foreignKey:InvitationID" json:"-"`
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RespondedAt.IsZero() {
		r.RespondedAt = time.Now().UTC()
	}
	return nil
}

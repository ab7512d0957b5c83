package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Invitation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	EventType   string `gorm:"size:50;not null" json:"event_type"`

	EventDate    time.Time `gorm:"not null" json:"event_date"`
	EventTime    string    `gorm:"size:20" json:"event_time"`
	VenueName    string    `gorm:"size:200" json:"venue_name"`
	VenueAddress string    `gorm:"type:text" json:"venue_address"`

	HostName  string `gorm:"size:100;not null" json:"host_name"`
	HostEmail string `gorm:"size:120" json:"host_email"`
	HostPhone string `gorm:"size:20" json:"host_phone"`

	TemplateID    string `gorm:"size:50;default:'classic'" json:"template_id"`
	ColorScheme   string `gorm:"size:20;default:'blue'" json:"color_scheme"`
	CustomMessage string `gorm:"type:text" json:"custom_message"`

	// Code is immutable once allocated and never reused, even after deletion.
	Code             string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	IsPublic         bool   `gorm:"default:true" json:"is_public"`
	RequiresApproval bool   `gorm:"default:false" json:"requires_approval"`
	MaxGuests        *int   `json:"max_guests"`

	// Thresholds that already produced a milestone notification.
	NotifiedMilestones datatypes.JSONSlice[int] `gorm:"type:jsonb" json:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User   `gorm:"foreignKey:UserID" json:"-"`
	RSVPs []RSVP `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"rsvps,omitempty"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

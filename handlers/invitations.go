package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"rsvphub/config"
	"rsvphub/database"
	"rsvphub/models"
	"rsvphub/services"
)

type InvitationsHandler struct {
	cfg       *config.Config
	allocator *services.CodeAllocator
	rsvps     *services.RSVPService
	mailer    *services.Mailer
}

func NewInvitationsHandler(cfg *config.Config, allocator *services.CodeAllocator, rsvps *services.RSVPService, mailer *services.Mailer) *InvitationsHandler {
	return &InvitationsHandler{cfg: cfg, allocator: allocator, rsvps: rsvps, mailer: mailer}
}

type createInvitationRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	EventType     string `json:"event_type" binding:"required"`
	EventDate     string `json:"event_date" binding:"required"` // YYYY-MM-DD
	EventTime     string `json:"event_time"`                    // HH:MM
	VenueName     string `json:"venue_name"`
	VenueAddress  string `json:"venue_address"`
	HostName      string `json:"host_name" binding:"required"`
	HostEmail     string `json:"host_email"`
	HostPhone     string `json:"host_phone"`
	TemplateID    string `json:"template_id"`
	ColorScheme   string `json:"color_scheme"`
	CustomMessage string `json:"custom_message"`
	IsPublic      *bool  `json:"is_public"`
	MaxGuests     *int   `json:"max_guests"`
}

// Create allocates a unique code and stores a new invitation. The unique
// index on the code column is the authoritative guard: a duplicate-key error
// on insert means another request won the code, so we allocate a fresh one
// and try again.
func (h *InvitationsHandler) Create(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return
	}
	if req.EventTime != "" {
		t, err := time.Parse("15:04", req.EventTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_time must be HH:MM"})
			return
		}
		eventDate = eventDate.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}

	userID, _ := c.Get("user_id")

	if req.TemplateID == "" {
		req.TemplateID = "classic"
	}
	if req.ColorScheme == "" {
		req.ColorScheme = "blue"
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	inv := models.Invitation{
		Title:         req.Title,
		Description:   req.Description,
		EventType:     req.EventType,
		EventDate:     eventDate,
		EventTime:     req.EventTime,
		VenueName:     req.VenueName,
		VenueAddress:  req.VenueAddress,
		HostName:      req.HostName,
		HostEmail:     req.HostEmail,
		HostPhone:     req.HostPhone,
		TemplateID:    req.TemplateID,
		ColorScheme:   req.ColorScheme,
		CustomMessage: req.CustomMessage,
		IsPublic:      isPublic,
		MaxGuests:     req.MaxGuests,
		UserID:        userID.(uuid.UUID),
	}

	for {
		code, err := h.allocator.Allocate()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
			return
		}
		inv.Code = code

		err = database.DB.Create(&inv).Error
		if err == nil {
			break
		}
		if services.IsDuplicateKey(err) {
			continue
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invitation": inv,
		"share_url":  h.mailer.ShareURL(inv.Code),
	})
}

// List returns the current user's invitations plus dashboard stats.
func (h *InvitationsHandler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var invitations []models.Invitation
	database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&invitations)

	var totalRSVPs, totalAttending int64
	database.DB.Model(&models.RSVP{}).
		Joins("JOIN invitations ON invitations.id = rsvps.invitation_id").
		Where("invitations.user_id = ?", userID).
		Count(&totalRSVPs)
	database.DB.Model(&models.RSVP{}).
		Joins("JOIN invitations ON invitations.id = rsvps.invitation_id").
		Where("invitations.user_id = ? AND rsvps.status = ?", userID, models.RSVPAttending).
		Count(&totalAttending)

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
		"stats": gin.H{
			"total_invitations": len(invitations),
			"total_rsvps":       totalRSVPs,
			"total_attending":   totalAttending,
		},
	})
}

// View is the public invitation page for guests.
func (h *InvitationsHandler) View(c *gin.Context) {
	code := c.Param("code")

	var inv models.Invitation
	if err := database.DB.Where("code = ?", code).First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitation": inv,
		"template":   services.TemplateByID(inv.TemplateID),
	})
}

// Manage returns the owner's view of an invitation, including a QR code for
// the share link.
func (h *InvitationsHandler) Manage(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}

	shareURL := h.mailer.ShareURL(inv.Code)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitation": inv,
		"share_url":  shareURL,
		"qr_code":    base64.StdEncoding.EncodeToString(png),
	})
}

// Stats returns the RSVP breakdown for an owned invitation.
func (h *InvitationsHandler) Stats(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}

	stats, err := h.rsvps.Counts(inv.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	var responses []models.RSVP
	database.DB.Where("invitation_id = ?", inv.ID).
		Order("responded_at DESC").
		Find(&responses)

	list := make([]gin.H, 0, len(responses))
	for _, r := range responses {
		list = append(list, gin.H{
			"guest_name":   r.GuestName,
			"status":       r.Status,
			"guest_count":  r.GuestCount,
			"responded_at": r.RespondedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_rsvps":   stats.Total,
		"attending":     stats.Attending,
		"not_attending": stats.NotAttending,
		"maybe":         stats.Maybe,
		"rsvps":         list,
	})
}

// SendReminders emails an event reminder to every guest who responded
// attending or maybe and left an email address.
func (h *InvitationsHandler) SendReminders(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}

	var responses []models.RSVP
	database.DB.Where("invitation_id = ? AND guest_email <> '' AND status IN ?",
		inv.ID, []models.RSVPStatus{models.RSVPAttending, models.RSVPMaybe}).
		Find(&responses)

	sent := 0
	for _, r := range responses {
		if err := h.mailer.SendEventReminder(r.GuestName, r.GuestEmail, inv); err == nil {
			sent++
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminders sent", "sent": sent})
}

// Delete removes an owned invitation; its RSVPs go with it.
func (h *InvitationsHandler) Delete(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}

	if err := database.DB.Select("RSVPs").Delete(inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation deleted"})
}

// ownedInvitation loads the invitation by code and verifies the requester
// owns it. Writes the error response itself when the check fails.
func (h *InvitationsHandler) ownedInvitation(c *gin.Context) (*models.Invitation, bool) {
	code := c.Param("code")
	userID, _ := c.Get("user_id")

	var inv models.Invitation
	if err := database.DB.Where("code = ? AND user_id = ?", code, userID).First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return nil, false
	}
	return &inv, true
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvphub/config"
	"rsvphub/database"
	"rsvphub/models"
	"rsvphub/services"
)

type RSVPsHandler struct {
	cfg   *config.Config
	rsvps *services.RSVPService
}

func NewRSVPsHandler(cfg *config.Config, rsvps *services.RSVPService) *RSVPsHandler {
	return &RSVPsHandler{cfg: cfg, rsvps: rsvps}
}

type submitRSVPRequest struct {
	GuestName           string `json:"guest_name" binding:"required"`
	GuestEmail          string `json:"guest_email"`
	GuestPhone          string `json:"guest_phone"`
	Status              string `json:"status" binding:"required"`
	GuestCount          int    `json:"guest_count"`
	DietaryRequirements string `json:"dietary_requirements"`
	SpecialRequests     string `json:"special_requests"`
	Message             string `json:"message"`
}

var statusMessages = map[models.RSVPStatus]string{
	models.RSVPAttending:    "Great! We're excited to see you at the event!",
	models.RSVPNotAttending: "Thanks for letting us know. You'll be missed!",
	models.RSVPMaybe:        "Thanks for your response. Hope you can make it!",
}

// Submit handles a guest response to a public invitation.
func (h *RSVPsHandler) Submit(c *gin.Context) {
	code := c.Param("code")

	var inv models.Invitation
	if err := database.DB.Where("code = ?", code).First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	var req submitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rsvp, created, err := h.rsvps.Submit(&inv, services.RSVPSubmission{
		GuestName:           req.GuestName,
		GuestEmail:          req.GuestEmail,
		GuestPhone:          req.GuestPhone,
		Status:              req.Status,
		GuestCount:          req.GuestCount,
		DietaryRequirements: req.DietaryRequirements,
		SpecialRequests:     req.SpecialRequests,
		Message:             req.Message,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidRSVPStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be attending, not_attending or maybe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit RSVP"})
		return
	}

	h.publishStats(&inv)

	httpStatus := http.StatusOK
	if created {
		httpStatus = http.StatusCreated
	}
	c.JSON(httpStatus, gin.H{
		"message": statusMessages[rsvp.Status],
		"rsvp":    rsvp,
	})
}

// publishStats pushes the invitation's current RSVP breakdown to Redis
// pub/sub so live dashboards update.
func (h *RSVPsHandler) publishStats(inv *models.Invitation) {
	if database.RDB == nil {
		return
	}

	stats, err := h.rsvps.Counts(inv.ID)
	if err != nil {
		return
	}

	data, _ := json.Marshal(gin.H{
		"type":  "rsvp_stats",
		"code":  inv.Code,
		"stats": stats,
	})
	database.RDB.Publish(context.Background(), "ws:invitation:"+inv.Code, string(data))
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rsvphub/config"
	"rsvphub/database"
	"rsvphub/models"
	"rsvphub/services"
)

type SubscriptionsHandler struct {
	cfg *config.Config
}

func NewSubscriptionsHandler(cfg *config.Config) *SubscriptionsHandler {
	return &SubscriptionsHandler{cfg: cfg}
}

type createSubscriptionRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category"`
	Cost      float64 `json:"cost" binding:"required"`
	Cadence   string  `json:"cadence" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"` // YYYY-MM-DD
}

type updateSubscriptionRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Cost     *float64 `json:"cost"`
	Status   string   `json:"status"`
}

// Create validates the cadence up front and seeds the first next-charge date
// by advancing the start date one period.
func (h *SubscriptionsHandler) Create(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cadence, err := services.ParseCadence(req.Cadence)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cadence must be weekly, monthly or yearly"})
		return
	}

	if req.Cost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cost cannot be negative"})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}

	nextCharge, err := services.Advance(startDate, cadence)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription"})
		return
	}

	userID, _ := c.Get("user_id")

	sub := models.Subscription{
		UserID:         userID.(uuid.UUID),
		Name:           req.Name,
		Category:       req.Category,
		Cost:           req.Cost,
		Cadence:        string(cadence),
		StartDate:      startDate,
		NextChargeDate: nextCharge,
		Status:         models.SubscriptionActive,
	}

	if err := database.DB.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// List returns the current user's subscriptions.
func (h *SubscriptionsHandler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var subs []models.Subscription
	database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs)

	c.JSON(http.StatusOK, subs)
}

// Update changes name, category, cost or lifecycle status. Cadence and dates
// are immutable; the next-charge date only moves through Charge.
func (h *SubscriptionsHandler) Update(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		sub.Name = req.Name
	}
	if req.Category != "" {
		sub.Category = req.Category
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cost cannot be negative"})
			return
		}
		sub.Cost = *req.Cost
	}
	if req.Status != "" {
		status := models.SubscriptionStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active, paused or cancelled"})
			return
		}
		sub.Status = status
	}

	if err := database.DB.Save(sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Delete removes a subscription.
func (h *SubscriptionsHandler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")
	subID := c.Param("id")

	result := database.DB.Where("id = ? AND user_id = ?", subID, userID).
		Delete(&models.Subscription{})

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

// Charge records that a billing period elapsed: the next-charge date rolls
// forward by exactly one cadence period, never more, regardless of how late
// the external trigger runs.
func (h *SubscriptionsHandler) Charge(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}

	if sub.Status != models.SubscriptionActive {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription is not active"})
		return
	}

	next, err := services.Advance(sub.NextChargeDate, services.Cadence(sub.Cadence))
	if err != nil {
		// stored cadence is validated at creation, so this is storage corruption
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to advance charge date"})
		return
	}

	sub.NextChargeDate = next
	if err := database.DB.Save(sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to advance charge date"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Summary reports the monthly-equivalent total across active subscriptions.
func (h *SubscriptionsHandler) Summary(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var subs []models.Subscription
	database.DB.Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Find(&subs)

	var monthlyTotal float64
	items := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		monthly, err := services.MonthlyEquivalent(sub.Cost, services.Cadence(sub.Cadence))
		if err != nil {
			continue
		}
		monthlyTotal += monthly
		items = append(items, gin.H{
			"id":                 sub.ID,
			"name":               sub.Name,
			"cadence":            sub.Cadence,
			"cost":               sub.Cost,
			"monthly_equivalent": monthly,
			"next_charge_date":   sub.NextChargeDate.Format("2006-01-02"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_total": monthlyTotal,
		"yearly_total":  monthlyTotal * 12,
		"active_count":  len(subs),
		"subscriptions": items,
	})
}

func (h *SubscriptionsHandler) ownedSubscription(c *gin.Context) (*models.Subscription, bool) {
	userID, _ := c.Get("user_id")
	subID := c.Param("id")

	var sub models.Subscription
	if err := database.DB.Where("id = ? AND user_id = ?", subID, userID).First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return nil, false
	}
	return &sub, true
}

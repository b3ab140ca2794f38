package admin

import (
	"errors"
	"net/http"
	"time"

	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminSubscription struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PlanID         string    `json:"plan_id"`
	PlanName       string    `json:"plan_name"`
	Amount         int64     `json:"amount"`
	PaymentRef     string    `json:"payment_ref"`
	StreamURL      string    `json:"stream_url"`
	CreatedAt      time.Time `json:"created_at"`
	ExpirationDate time.Time `json:"expiration_date"`
	Status         string    `json:"status"`
	DisplayStatus  string    `json:"display_status"`
}

type AdminStats struct {
	Total        int   `json:"total"`
	Active       int   `json:"active"`
	Expired      int   `json:"expired"`
	TotalRevenue int64 `json:"total_revenue"`
}

type Handler struct {
	subs  *subscriptions.Store
	plans *plans.Store
	now   func() time.Time
}

func NewHandler(subs *subscriptions.Store, planStore *plans.Store) *Handler {
	return &Handler{subs: subs, plans: planStore, now: time.Now}
}

// ListSubscriptions returns every record, newest first. "Expired" is
// computed against the clock here, never read from storage.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	records, err := h.subs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	now := h.now()
	out := make([]AdminSubscription, 0, len(records))
	for _, s := range records {
		out = append(out, AdminSubscription{
			ID:             s.ID,
			Email:          s.Email,
			PlanID:         s.PlanID,
			PlanName:       s.PlanName,
			Amount:         s.Amount,
			PaymentRef:     s.PaymentRef,
			StreamURL:      s.StreamURL,
			CreatedAt:      s.CreatedAt,
			ExpirationDate: s.ExpirationDate,
			Status:         s.Status,
			DisplayStatus:  s.EffectiveStatus(now),
		})
	}

	c.JSON(http.StatusOK, out)
}

// Stats aggregates over the full listing at read time, same as the
// dashboard cards: total, active-and-unexpired, expired, revenue.
func (h *Handler) Stats(c *gin.Context) {
	records, err := h.subs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	now := h.now()
	var stats AdminStats
	stats.Total = len(records)
	for _, s := range records {
		expired := s.IsExpired(now)
		if expired {
			stats.Expired++
		}
		if s.Status == subscriptions.StatusActive && !expired {
			stats.Active++
		}
		stats.TotalRevenue += s.Amount
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !subscriptions.ValidStatus(body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'active' or 'suspended'"})
		return
	}

	if err := h.subs.UpdateStatus(c.Request.Context(), id, body.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": body.Status})
}

// DeleteSubscription permanently removes a record. The caller must
// send confirm=true; a bare DELETE does nothing.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion is permanent. Repeat the request with confirm=true."})
		return
	}

	if err := h.subs.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetSettings returns the per-tier prices and playlist URLs.
func (h *Handler) GetSettings(c *gin.Context) {
	rows, err := h.plans.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": rows})
}

// UpdateSettings persists plan price/URL edits. The provisioning
// workflow prices every later charge from these rows.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var body struct {
		Plans []struct {
			ID        string `json:"id" binding:"required"`
			Price     int64  `json:"price" binding:"required,gt=0"`
			StreamURL string `json:"stream_url" binding:"required"`
		} `json:"plans" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	for _, p := range body.Plans {
		if !plans.ValidTier(p.ID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan: " + p.ID})
			return
		}
	}

	for _, p := range body.Plans {
		if err := h.plans.UpdateSettings(c.Request.Context(), p.ID, p.Price, p.StreamURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	rows, err := h.plans.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": rows})
}

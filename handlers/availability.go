package handlers

import (
	"net/http"
	"time"

	"glowdesk/services/availability"
	"glowdesk/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the slot grid for front-desk tooling.
type AvailabilityHandler struct {
	Engine *availability.Engine
}

func NewAvailabilityHandler(engine *availability.Engine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// GetSlots returns the open start times for a date, optionally filtered
// to one stylist.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.Engine.Today()
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	slots, err := h.Engine.Slots(c.Request.Context(), date, c.Query("stylistId"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load availability", err.Error())
		return
	}
	if slots == nil {
		slots = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

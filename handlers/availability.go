package handlers

import (
	"net/http"

	"servana/middleware"
	"servana/models"
	availabilitySvc "servana/services/availability"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the availability ledger over HTTP.
type AvailabilityHandler struct {
	Ledger availabilitySvc.LedgerService
}

// GetDay returns a provider's availability for one date, materializing the
// default grid on first access.
func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	day, err := h.Ledger.GetOrCreateDay(c.Request.Context(), c.Param("providerID"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetRange returns a provider's availability between ?from= and ?to=.
func (h *AvailabilityHandler) GetRange(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	days, err := h.Ledger.GetRange(c.Request.Context(), c.Param("providerID"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// SetDay replaces the acting provider's slot grid for one date.
func (h *AvailabilityHandler) SetDay(c *gin.Context) {
	var input struct {
		Slots       []models.Slot `json:"slots"`
		IsAvailable *bool         `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	day, err := h.Ledger.SetDay(c.Request.Context(), c.GetString(middleware.CtxUserID),
		c.Param("providerID"), c.Param("date"), input.Slots, available)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

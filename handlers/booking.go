package handlers

import (
	"net/http"

	"servana/middleware"
	bookingSvc "servana/services/booking"
	walletSvc "servana/services/wallet"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes booking creation, the status machine, reschedule,
// rating and wallet payment over HTTP.
type BookingHandler struct {
	Bookings bookingSvc.Service
	Wallet   walletSvc.Service
}

// Create books a slot for the authenticated customer.
func (h *BookingHandler) Create(c *gin.Context) {
	var input struct {
		ProviderID string `json:"provider_id" binding:"required"`
		ServiceID  string `json:"service_id" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Time       string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Bookings.CreateBooking(c.Request.Context(), bookingSvc.CreateBookingRequest{
		CustomerID: c.GetString(middleware.CtxUserID),
		ProviderID: input.ProviderID,
		ServiceID:  input.ServiceID,
		Date:       input.Date,
		Time:       input.Time,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Get returns one booking visible to the caller.
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// List returns the caller's bookings by role.
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.Bookings.ListBookings(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxRole))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateStatus applies a status transition on behalf of the caller.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Bookings.Transition(c.Request.Context(), c.Param("id"), input.Status,
		c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Reschedule moves a confirmed booking to a new date and time.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Bookings.Reschedule(c.Request.Context(), c.Param("id"), input.Date, input.Time,
		c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Rate attaches a one-time rating to a completed booking.
func (h *BookingHandler) Rate(c *gin.Context) {
	var input struct {
		Rating float64 `json:"rating" binding:"required"`
		Review string  `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Bookings.AddRating(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID), input.Rating, input.Review)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Pay applies the wallet payment for a booking.
func (h *BookingHandler) Pay(c *gin.Context) {
	booking, err := h.Wallet.PayForBooking(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

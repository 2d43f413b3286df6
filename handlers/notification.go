package handlers

import (
	"net/http"

	notificationRepo "servana/database/repository/notification"
	"servana/middleware"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the caller's notification feed.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.Repo.ListByUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Repo.MarkRead(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}

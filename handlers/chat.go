package handlers

import (
	"net/http"
	"strconv"

	"servana/middleware"
	chatSvc "servana/services/chat"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes conversations and messages over HTTP.
type ChatHandler struct {
	Chat chatSvc.Service
}

// OpenConversation returns the thread between the caller and another user,
// creating it on first contact.
func (h *ChatHandler) OpenConversation(c *gin.Context) {
	var input struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	conv, err := h.Chat.GetOrCreateConversation(c.Request.Context(),
		[]string{c.GetString(middleware.CtxUserID), input.ParticipantID})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListConversations returns the caller's conversation summaries with fresh
// unread counts.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	summaries, err := h.Chat.ListConversations(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// SendMessage appends a message to a conversation.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	msg, err := h.Chat.SendMessage(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID), input.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns a conversation's messages, oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	msgs, err := h.Chat.ListMessages(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID), page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// MarkRead moves the caller's read marker to the newest message.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	if err := h.Chat.MarkRead(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "conversation marked read"})
}

package handlers

import (
	"net/http"
	"time"

	userRepo "servana/database/repository/user"
	"servana/middleware"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the caller's own profile.
type UserHandler struct {
	Repo userRepo.UserRepository
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.Repo.GetByID(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user == nil {
		utils.RespondError(c, utils.NewNotFoundError("user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe modifies the caller's profile fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		FCMToken string `json:"fcm_token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	user, err := h.Repo.GetByID(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user == nil {
		utils.RespondError(c, utils.NewNotFoundError("user not found"))
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.FCMToken != "" {
		user.FCMToken = input.FCMToken
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.Repo.Update(c.Request.Context(), user); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

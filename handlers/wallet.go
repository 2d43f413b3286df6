package handlers

import (
	"net/http"

	"servana/middleware"
	walletSvc "servana/services/wallet"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes the caller's wallet over HTTP.
type WalletHandler struct {
	Wallet walletSvc.Service
}

// Get returns the caller's wallet, creating it on first access.
func (h *WalletHandler) Get(c *gin.Context) {
	w, err := h.Wallet.GetWallet(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Deposit adds funds to the caller's wallet.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var input struct {
		Amount    float64 `json:"amount" binding:"required"`
		Narration string  `json:"narration"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	w, err := h.Wallet.Deposit(c.Request.Context(), c.GetString(middleware.CtxUserID),
		input.Amount, input.Narration)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Ledger returns the caller's ledger entries, newest first.
func (h *WalletHandler) Ledger(c *gin.Context) {
	entries, err := h.Wallet.ListLedger(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

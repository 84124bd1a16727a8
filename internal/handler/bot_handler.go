package handler

import (
	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/service"
	"alphagex/dashboard/internal/util"

	"github.com/gin-gonic/gin"
)

type BotHandler struct {
	botService *service.BotService
	refresh    *service.RefreshService
}

func NewBotHandler(botService *service.BotService, refresh *service.RefreshService) *BotHandler {
	return &BotHandler{
		botService: botService,
		refresh:    refresh,
	}
}

// botID validates the :id path parameter against the monitored fleet.
// Anything outside the closed enumeration is a caller misconfiguration.
func botID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !model.IsKnownBot(id) {
		util.SendError(c, util.ErrBotNotFound(id))
		return "", false
	}
	return id, true
}

// ListBots handles GET /api/v1/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	util.SendSuccess(c, h.botService.ListBots(c.Request.Context()))
}

// GetStatus handles GET /api/v1/bots/:id/status
func (h *BotHandler) GetStatus(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	state, err := h.botService.GetStatus(c.Request.Context(), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, state)
}

// GetSummary handles GET /api/v1/bots/:id/summary
func (h *BotHandler) GetSummary(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	view, err := h.botService.GetSummary(c.Request.Context(), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, view)
}

// GetCapitalConfig handles GET /api/v1/bots/:id/capital
func (h *BotHandler) GetCapitalConfig(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	cfg, err := h.botService.GetCapitalConfig(c.Request.Context(), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, cfg)
}

// UpdateCapital handles POST /api/v1/bots/:id/capital
func (h *BotHandler) UpdateCapital(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	var req model.CapitalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	if err := h.botService.UpdateCapital(c.Request.Context(), id, req.Amount); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Capital updated successfully")
}

// GetReconciliation handles GET /api/v1/bots/:id/reconciliation
func (h *BotHandler) GetReconciliation(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	view, err := h.botService.GetReconciliation(c.Request.Context(), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, view)
}

// Refresh handles POST /api/v1/bots/:id/refresh (manual refresh button)
func (h *BotHandler) Refresh(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	h.refresh.RefreshAll(id)
	util.SendSuccessWithMessage(c, nil, "Refresh triggered")
}

// RequestReset handles POST /api/v1/bots/:id/reset/request
func (h *BotHandler) RequestReset(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	challenge, err := h.botService.RequestReset(c.Request.Context(), id)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, challenge)
}

// resetConfirmRequest carries the token issued by RequestReset
type resetConfirmRequest struct {
	ConfirmToken string `json:"confirm_token" binding:"required"`
}

// ConfirmReset handles POST /api/v1/bots/:id/reset/confirm
func (h *BotHandler) ConfirmReset(c *gin.Context) {
	id, ok := botID(c)
	if !ok {
		return
	}

	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	if err := h.botService.ConfirmReset(c.Request.Context(), id, req.ConfirmToken); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Bot reset successfully")
}

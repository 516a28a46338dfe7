package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/athleticore/backend/internal/service"
	"github.com/athleticore/backend/internal/types"
)

// TdeeHandler handles TDEE profile and coach-chat requests
type TdeeHandler struct {
	tdeeService service.ITdeeService
}

// NewTdeeHandler creates a new TdeeHandler instance
func NewTdeeHandler(tdeeService service.ITdeeService) *TdeeHandler {
	return &TdeeHandler{tdeeService: tdeeService}
}

// GetProfile returns the caller's TDEE profile with its completion state
func (h *TdeeHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.tdeeService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"state":   service.ProfileState(profile),
	})
}

// SaveProfile creates or replaces the caller's TDEE profile
func (h *TdeeHandler) SaveProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SaveTdeeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.tdeeService.SaveProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "TDEE profile saved", "profile": profile})
}

// Chat handles one coach conversation turn
func (h *TdeeHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.TdeeChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.tdeeService.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

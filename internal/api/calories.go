package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/athleticore/backend/internal/service"
	"github.com/athleticore/backend/internal/types"
)

// CalorieHandler handles calorie log and quick-log chat requests
type CalorieHandler struct {
	calorieService service.ICalorieService
}

// NewCalorieHandler creates a new CalorieHandler instance
func NewCalorieHandler(calorieService service.ICalorieService) *CalorieHandler {
	return &CalorieHandler{calorieService: calorieService}
}

// AddLog adds a manual calorie log
func (h *CalorieHandler) AddLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.AddCalorieLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.calorieService.AddLog(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Calorie log added", "log": entry})
}

// ListLogs returns the caller's logs, optionally filtered by date
func (h *CalorieHandler) ListLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := h.calorieService.ListLogs(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// TodaySummary returns today's logs with total, goal and surplus
func (h *CalorieHandler) TodaySummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.calorieService.TodaySummary(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetLog returns one live log entry
func (h *CalorieHandler) GetLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.calorieService.GetLog(c.Request.Context(), logID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entry.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "log entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": entry})
}

// UpdateLog applies a partial update to a log entry
func (h *CalorieHandler) UpdateLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch types.CalorieLogPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.calorieService.UpdateLog(c.Request.Context(), userID, logID, &patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log updated", "log": entry})
}

// DeleteLog soft-deletes a log entry
func (h *CalorieHandler) DeleteLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.calorieService.SoftDeleteLog(c.Request.Context(), userID, logID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log deleted"})
}

// Chat handles one quick-log conversation turn
func (h *CalorieHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Message string                `json:"message" binding:"required"`
		History []service.ChatMessage `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.calorieService.QuickLogChat(c.Request.Context(), userID, req.Message, req.History)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

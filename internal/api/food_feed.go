package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/athleticore/backend/internal/service"
	"github.com/athleticore/backend/internal/types"
)

// FoodFeedHandler handles food feed and food-chat requests
type FoodFeedHandler struct {
	feedService service.IFoodFeedService
}

// NewFoodFeedHandler creates a new FoodFeedHandler instance
func NewFoodFeedHandler(feedService service.IFoodFeedService) *FoodFeedHandler {
	return &FoodFeedHandler{feedService: feedService}
}

// CreateEntry creates a new food feed entry
func (h *FoodFeedHandler) CreateEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateFoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.feedService.AddEntry(c.Request.Context(), userID, req.Content, req.EntryDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Food entry created", "feed_entry": entry})
}

// ListFeed returns the caller's feed for a date (today when omitted)
func (h *FoodFeedHandler) ListFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.feedService.ListFeed(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feed": entries})
}

// GetEntry returns one feed entry with its conversation
func (h *FoodFeedHandler) GetEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.feedService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entry.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "food entry not found"})
		return
	}

	history, err := h.feedService.ChatHistory(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feed_entry": entry, "chat_history": history})
}

// DeleteEntry removes a feed entry
func (h *FoodFeedHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.feedService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Food entry deleted"})
}

// Chat handles one food conversation turn for a feed entry
func (h *FoodFeedHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.feedService.Chat(c.Request.Context(), userID, entryID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

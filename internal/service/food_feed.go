package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/athleticore/backend/internal/models"
)

const foodGatewayApology = "I'm sorry, I couldn't process that just now. Please try again in a moment."

const foodSystemPrompt = `You are a helpful nutrition assistant for Athleticore. Help users log food and nutrition information.

COMMUNICATION STYLE:
- Be conversational but concise (1-2 sentences, typically 10-20 words)
- Be friendly and natural

STRICT RULES:
1. Only answer questions about food, calories and nutrition. Politely refuse anything else.
2. Never show raw JSON or structured data in your visible reply.
3. Be accurate with calorie and macro estimates; ask clarifying questions about portion size or preparation rather than guessing.
4. When you have enough information, append a JSON object at the END of your reply in exactly this format:
{
    "food_name": "Cheeseburger",
    "calories": 350.0,
    "protein_g": 20.0,
    "carbs_g": 30.0,
    "fat_g": 15.0,
    "ready_to_save": true
}
5. Your natural language reply comes first, then the JSON. If the reply would be empty without the JSON, say something like "Logged!".`

// FoodChatResult is the boundary response for one food-chat turn.
type FoodChatResult struct {
	Reply           string               `json:"reply"`
	NutritionResult *NutritionExtraction `json:"nutrition_result,omitempty"`
}

// FoodFeedService owns food feed entries and their conversations. An entry is
// created with raw content only; the nutrition card fills in once, all fields
// together, when a chat extraction arrives ready to save.
type FoodFeedService struct {
	db    *gorm.DB
	model ChatModel
}

var _ IFoodFeedService = (*FoodFeedService)(nil)

// NewFoodFeedService creates a new FoodFeedService instance
func NewFoodFeedService(db *gorm.DB, model ChatModel) *FoodFeedService {
	return &FoodFeedService{db: db, model: model}
}

// AddEntry creates a new feed entry with content only
func (s *FoodFeedService) AddEntry(ctx context.Context, userID uuid.UUID, content, entryDate string) (*models.FoodFeedEntry, error) {
	if entryDate == "" {
		entryDate = time.Now().UTC().Format("2006-01-02")
	}
	entry := &models.FoodFeedEntry{
		UserID:    userID,
		Content:   content,
		EntryDate: entryDate,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create feed entry: %w", err)
	}
	return entry, nil
}

// GetEntry retrieves a single feed entry
func (s *FoodFeedService) GetEntry(ctx context.Context, id uuid.UUID) (*models.FoodFeedEntry, error) {
	var entry models.FoodFeedEntry
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListFeed returns a user's feed entries for a date, oldest first
func (s *FoodFeedService) ListFeed(ctx context.Context, userID uuid.UUID, entryDate string) ([]models.FoodFeedEntry, error) {
	if entryDate == "" {
		entryDate = time.Now().UTC().Format("2006-01-02")
	}
	var entries []models.FoodFeedEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, entryDate).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes a feed entry and its conversation
func (s *FoodFeedService) DeleteEntry(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND owner_kind = ?", id, models.ChatOwnerFood).
			Delete(&models.ChatTurn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FoodFeedEntry{}, "id = ?", id).Error
	})
}

// ChatHistory returns the conversation attached to a feed entry
func (s *FoodFeedService) ChatHistory(ctx context.Context, entryID uuid.UUID) ([]models.ChatTurn, error) {
	return listChatTurns(ctx, s.db, entryID, models.ChatOwnerFood)
}

// Chat handles one food-chat turn for a feed entry: append the user message,
// call the model with the full history, parse, and fill the nutrition card
// when the extraction is ready.
func (s *FoodFeedService) Chat(ctx context.Context, userID, entryID uuid.UUID, message string) (*FoodChatResult, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotFound
	}

	// the user's turn is durable before the gateway is ever invoked
	if _, err := appendChatTurn(ctx, s.db, entryID, models.ChatOwnerFood, models.ChatRoleUser, message); err != nil {
		return nil, fmt.Errorf("failed to append user turn: %w", err)
	}

	turns, err := listChatTurns(ctx, s.db, entryID, models.ChatOwnerFood)
	if err != nil {
		return nil, err
	}

	raw, err := s.model.Complete(ctx, foodSystemPrompt, chatTurnsToMessages(turns))
	if err != nil {
		if errors.Is(err, ErrGatewayUnavailable) {
			log.Printf("food chat: gateway unavailable for entry %s: %v", entryID, err)
			return &FoodChatResult{Reply: foodGatewayApology}, nil
		}
		return nil, err
	}

	visible, extraction := ParseNutritionExtraction(raw)

	result := &FoodChatResult{Reply: visible, NutritionResult: extraction}
	if extraction != nil && extraction.ReadyToSave {
		// commit before the assistant turn so a stored conversation never
		// claims a save that didn't happen
		if _, err := s.ApplyNutrition(ctx, entryID, extraction); err != nil {
			return nil, err
		}
	}

	if _, err := appendChatTurn(ctx, s.db, entryID, models.ChatOwnerFood, models.ChatRoleAssistant, visible); err != nil {
		return nil, fmt.Errorf("failed to append assistant turn: %w", err)
	}

	return result, nil
}

// ApplyNutrition fills the nutrition card in one update. Columns are written
// together or not at all; a partial card is never stored.
func (s *FoodFeedService) ApplyNutrition(ctx context.Context, entryID uuid.UUID, e *NutritionExtraction) (*models.FoodFeedEntry, error) {
	if e.FoodName == "" {
		return nil, fmt.Errorf("%w: food name is required", ErrValidation)
	}
	if e.Calories < 0 || e.ProteinG < 0 || e.CarbsG < 0 || e.FatG < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&models.FoodFeedEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]any{
			"food_name": e.FoodName,
			"calories":  e.Calories,
			"protein_g": e.ProteinG,
			"carbs_g":   e.CarbsG,
			"fat_g":     e.FatG,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update nutrition: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetEntry(ctx, entryID)
}

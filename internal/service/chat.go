package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/athleticore/backend/internal/models"
)

// appendChatTurn durably records one conversation turn. Turns are append-only;
// nothing ever updates or deletes them.
func appendChatTurn(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, ownerKind, role, content string) (*models.ChatTurn, error) {
	turn := &models.ChatTurn{
		OwnerID:   ownerID,
		OwnerKind: ownerKind,
		Role:      role,
		Content:   content,
	}
	if err := db.WithContext(ctx).Create(turn).Error; err != nil {
		return nil, err
	}
	return turn, nil
}

// listChatTurns returns the full conversation for an owner in creation order,
// with the insert sequence breaking creation-time ties.
func listChatTurns(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, ownerKind string) ([]models.ChatTurn, error) {
	var turns []models.ChatTurn
	err := db.WithContext(ctx).
		Where("owner_id = ? AND owner_kind = ?", ownerID, ownerKind).
		Order("created_at ASC, id ASC").
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// chatTurnsToMessages converts stored turns into gateway messages.
func chatTurnsToMessages(turns []models.ChatTurn) []ChatMessage {
	messages := make([]ChatMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	return messages
}

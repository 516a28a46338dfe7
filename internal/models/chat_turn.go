package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	ChatOwnerTdee = "tdee"
	ChatOwnerFood = "food"
)

// ChatTurn is one persisted message in a conversation. Rows are append-only
// and never updated; ordering is by creation time with the auto-increment id
// breaking ties.
type ChatTurn struct {
	ID        int64     `gorm:"primarykey;autoIncrement" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	OwnerKind string    `gorm:"size:10;not null" json:"owner_kind"`
	Role      string    `gorm:"size:10;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TdeeProfile holds a user's energy-expenditure target. Exactly one row per
// user; creation starts from placeholder defaults and fields are upgraded in
// place as the coach learns them.
type TdeeProfile struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Age           *int      `json:"age"`
	Gender        *string   `gorm:"size:10" json:"gender"`
	HeightCm      *float64  `json:"height_cm"`
	WeightKg      *float64  `json:"weight_kg"`
	ActivityLevel string    `gorm:"size:30" json:"activity_level"`
	TdeeValue     float64   `json:"tdee_value"`
	GoalType      string    `gorm:"size:10" json:"goal_type"`
	GoalOffset    float64   `json:"goal_offset"`
	GoalCalories  float64   `json:"goal_calories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *TdeeProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

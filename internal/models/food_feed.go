package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodFeedEntry is created with raw content only. The nutrition columns stay
// null until a chat extraction completes, and are then populated together in
// one update; a partially filled card is never written.
type FoodFeedEntry struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FoodName  *string   `gorm:"size:255" json:"food_name"`
	Calories  *float64  `json:"calories"`
	ProteinG  *float64  `json:"protein_g"`
	CarbsG    *float64  `json:"carbs_g"`
	FatG      *float64  `json:"fat_g"`
	EntryDate string    `gorm:"size:10;not null;index" json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *FoodFeedEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasNutrition reports whether the nutrition card has been filled in.
func (e *FoodFeedEntry) HasNutrition() bool {
	return e.FoodName != nil && e.Calories != nil && e.ProteinG != nil && e.CarbsG != nil && e.FatG != nil
}

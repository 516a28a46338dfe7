package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalorieLog is a standalone daily intake record. Deletion is a soft flag so
// history survives; flagged rows are excluded from every read and aggregate.
type CalorieLog struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	EntryDate   string    `gorm:"size:10;not null;index" json:"entry_date"`
	Description string    `gorm:"size:255" json:"description"`
	Calories    float64   `gorm:"not null" json:"calories"`
	ProteinG    float64   `gorm:"not null" json:"protein_g"`
	CarbsG      float64   `gorm:"not null" json:"carbs_g"`
	FatG        float64   `gorm:"not null" json:"fat_g"`
	CreatedAt   time.Time `json:"created_at"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"`
}

func (l *CalorieLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

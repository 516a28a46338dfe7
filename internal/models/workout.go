package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workout struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	WorkoutName string    `gorm:"size:255;not null" json:"workout_name"`
	LogDate     string    `gorm:"size:10;not null" json:"log_date"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`

	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type WorkoutExercise struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	WorkoutID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"workout_id"`
	ExerciseName   string    `gorm:"size:255;not null" json:"exercise_name"`
	Sets           int       `gorm:"not null" json:"sets"`
	Reps           int       `gorm:"not null" json:"reps"`
	WeightKg       float64   `json:"weight_kg"`
	PreviousWeight float64   `json:"previous_weight"`
	OrderIndex     int       `gorm:"not null" json:"order_index"`
	Notes          string    `gorm:"type:text" json:"notes"`
}

func (e *WorkoutExercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

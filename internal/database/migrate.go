package database

import (
	"gorm.io/gorm"

	"github.com/athleticore/backend/internal/models"
)

// RunMigrations creates or updates the schema for every entity
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TdeeProfile{},
		&models.ChatTurn{},
		&models.FoodFeedEntry{},
		&models.CalorieLog{},
		&models.Workout{},
		&models.WorkoutExercise{},
	)
}

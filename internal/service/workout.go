package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/types"
)

// WorkoutService owns workouts and their ordered exercises.
type WorkoutService struct {
	db *gorm.DB
}

var _ IWorkoutService = (*WorkoutService)(nil)

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

// CreateWorkout inserts a workout and its exercises in one transaction
func (s *WorkoutService) CreateWorkout(ctx context.Context, userID uuid.UUID, req *types.CreateWorkoutRequest) (*models.Workout, error) {
	if len(req.Exercises) == 0 {
		return nil, fmt.Errorf("%w: at least one exercise is required", ErrValidation)
	}

	workout := &models.Workout{
		UserID:      userID,
		WorkoutName: req.WorkoutName,
		LogDate:     req.LogDate,
		Notes:       req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workout).Error; err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}
		for i, input := range req.Exercises {
			exercise := models.WorkoutExercise{
				WorkoutID:      workout.ID,
				ExerciseName:   input.ExerciseName,
				Sets:           input.Sets,
				Reps:           input.Reps,
				WeightKg:       input.WeightKg,
				PreviousWeight: input.PreviousWeight,
				OrderIndex:     input.OrderIndex,
				Notes:          input.Notes,
			}
			if err := tx.Create(&exercise).Error; err != nil {
				return fmt.Errorf("failed to insert exercise %d (%s): %w", i+1, input.ExerciseName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetWorkout(ctx, workout.ID)
}

// GetWorkout retrieves a workout with its exercises in order
func (s *WorkoutService) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	var workout models.Workout
	err := s.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&workout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListWorkouts returns a user's workouts, newest first
func (s *WorkoutService) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error) {
	var workouts []models.Workout
	err := s.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("user_id = ?", userID).
		Order("log_date DESC, created_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

// UpdateWorkout applies a patch to a workout's own fields in one conditional
// update; exercises are not touched.
func (s *WorkoutService) UpdateWorkout(ctx context.Context, userID, id uuid.UUID, patch *types.WorkoutPatch) (*models.Workout, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: patch has no fields", ErrValidation)
	}

	updates := map[string]any{}
	if patch.WorkoutName != nil {
		if *patch.WorkoutName == "" {
			return nil, fmt.Errorf("%w: workout name cannot be empty", ErrValidation)
		}
		updates["workout_name"] = *patch.WorkoutName
	}
	if patch.LogDate != nil {
		updates["log_date"] = *patch.LogDate
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	res := s.db.WithContext(ctx).Model(&models.Workout{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update workout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetWorkout(ctx, id)
}

// DeleteWorkout removes a workout and its exercises
func (s *WorkoutService) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return err
	}
	if workout.UserID != userID {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workout{}, "id = ?", id).Error
	})
}

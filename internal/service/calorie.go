package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/types"
)

const summaryCacheTTL = 5 * time.Minute

// DailySummary aggregates a user's intake for one date against their goal.
// Surplus is floored at zero; under goal reports as 0, not a negative number.
type DailySummary struct {
	Logs          []models.CalorieLog `json:"logs"`
	TotalCalories float64             `json:"total_calories"`
	GoalCalories  *float64            `json:"goal_calories"`
	Surplus       *float64            `json:"surplus"`
}

// CalorieService owns calorie logs and their aggregates. The summary for a
// (user, date) pair is cached in Redis and invalidated on every write; a nil
// Redis client disables caching.
type CalorieService struct {
	db    *gorm.DB
	redis *redis.Client
	model ChatModel
	tdee  ITdeeService
}

var _ ICalorieService = (*CalorieService)(nil)

// NewCalorieService creates a new CalorieService instance
func NewCalorieService(db *gorm.DB, redisClient *redis.Client, model ChatModel, tdee ITdeeService) *CalorieService {
	return &CalorieService{db: db, redis: redisClient, model: model, tdee: tdee}
}

// AddLog inserts a fully populated calorie log; partial logs are rejected
func (s *CalorieService) AddLog(ctx context.Context, userID uuid.UUID, req *types.AddCalorieLogRequest) (*models.CalorieLog, error) {
	if req.Calories < 0 || req.ProteinG < 0 || req.CarbsG < 0 || req.FatG < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrValidation)
	}

	entryDate := req.EntryDate
	if entryDate == "" {
		entryDate = time.Now().UTC().Format("2006-01-02")
	}

	entry := &models.CalorieLog{
		UserID:      userID,
		EntryDate:   entryDate,
		Description: req.Description,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create calorie log: %w", err)
	}

	s.invalidateSummary(ctx, userID, entryDate)
	return entry, nil
}

// GetLog retrieves one live log entry
func (s *CalorieService) GetLog(ctx context.Context, id uuid.UUID) (*models.CalorieLog, error) {
	var entry models.CalorieLog
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListLogs returns a user's live logs, optionally filtered by date
func (s *CalorieService) ListLogs(ctx context.Context, userID uuid.UUID, entryDate string) ([]models.CalorieLog, error) {
	query := s.db.WithContext(ctx).Where("user_id = ? AND is_deleted = ?", userID, false)
	if entryDate != "" {
		query = query.Where("entry_date = ?", entryDate)
	}

	var logs []models.CalorieLog
	if err := query.Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// UpdateLog applies a patch to a live log in one conditional update; matching
// on id plus the not-deleted flag keeps it race-free against a concurrent
// soft delete.
func (s *CalorieService) UpdateLog(ctx context.Context, userID, id uuid.UUID, patch *types.CalorieLogPatch) (*models.CalorieLog, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: patch has no fields", ErrValidation)
	}
	for _, v := range []*float64{patch.Calories, patch.ProteinG, patch.CarbsG, patch.FatG} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrValidation)
		}
	}

	updates := map[string]any{}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Calories != nil {
		updates["calories"] = *patch.Calories
	}
	if patch.ProteinG != nil {
		updates["protein_g"] = *patch.ProteinG
	}
	if patch.CarbsG != nil {
		updates["carbs_g"] = *patch.CarbsG
	}
	if patch.FatG != nil {
		updates["fat_g"] = *patch.FatG
	}

	res := s.db.WithContext(ctx).Model(&models.CalorieLog{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update calorie log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	entry, err := s.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, userID, entry.EntryDate)
	return entry, nil
}

// SoftDeleteLog flags a log as deleted. The row stays in storage but vanishes
// from every read and aggregate.
func (s *CalorieService) SoftDeleteLog(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.GetLog(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return ErrNotFound
	}

	res := s.db.WithContext(ctx).Model(&models.CalorieLog{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("failed to delete calorie log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidateSummary(ctx, userID, entry.EntryDate)
	return nil
}

// DailyTotal sums calories over live rows for a date, 0 when there are none
func (s *CalorieService) DailyTotal(ctx context.Context, userID uuid.UUID, entryDate string) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.CalorieLog{}).
		Where("user_id = ? AND entry_date = ? AND is_deleted = ?", userID, entryDate, false).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Surplus reports how far total exceeds goal, floored at zero
func Surplus(total, goal float64) float64 {
	if diff := total - goal; diff > 0 {
		return diff
	}
	return 0
}

// TodaySummary returns the logs, total, goal and surplus for a date. Goal and
// surplus are nil when the user has no committed TDEE profile yet. Only the
// logs and total are cached; the goal is read fresh on every call so a
// just-committed profile change is never shadowed by a cached snapshot.
func (s *CalorieService) TodaySummary(ctx context.Context, userID uuid.UUID, entryDate string) (*DailySummary, error) {
	if entryDate == "" {
		entryDate = time.Now().UTC().Format("2006-01-02")
	}

	summary := s.cachedSummary(ctx, userID, entryDate)
	if summary == nil {
		logs, err := s.ListLogs(ctx, userID, entryDate)
		if err != nil {
			return nil, err
		}

		summary = &DailySummary{Logs: logs}
		for _, entry := range logs {
			summary.TotalCalories += entry.Calories
		}
		s.cacheSummary(ctx, userID, entryDate, summary)
	}

	summary.GoalCalories = nil
	summary.Surplus = nil
	profile, err := s.tdee.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if profile != nil && profile.GoalCalories > 0 {
		goal := profile.GoalCalories
		surplus := Surplus(summary.TotalCalories, goal)
		summary.GoalCalories = &goal
		summary.Surplus = &surplus
	}

	return summary, nil
}

// QuickLogChat handles one calorie quick-log turn. History lives with the
// client for this flow; a complete, ready extraction writes straight to the
// calorie log.
func (s *CalorieService) QuickLogChat(ctx context.Context, userID uuid.UUID, message string, history []ChatMessage) (*FoodChatResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	messages := append(append([]ChatMessage{}, history...), ChatMessage{Role: models.ChatRoleUser, Content: message})

	raw, err := s.model.Complete(ctx, foodSystemPrompt, messages)
	if err != nil {
		if errors.Is(err, ErrGatewayUnavailable) {
			log.Printf("quick-log chat: gateway unavailable for user %s: %v", userID, err)
			return &FoodChatResult{Reply: foodGatewayApology}, nil
		}
		return nil, err
	}

	visible, extraction := ParseNutritionExtraction(raw)

	result := &FoodChatResult{Reply: visible, NutritionResult: extraction}
	if extraction != nil && extraction.ReadyToSave {
		_, err := s.AddLog(ctx, userID, &types.AddCalorieLogRequest{
			Description: extraction.FoodName,
			Calories:    extraction.Calories,
			ProteinG:    extraction.ProteinG,
			CarbsG:      extraction.CarbsG,
			FatG:        extraction.FatG,
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func summaryCacheKey(userID uuid.UUID, entryDate string) string {
	return fmt.Sprintf("calories:summary:%s:%s", userID, entryDate)
}

func (s *CalorieService) cachedSummary(ctx context.Context, userID uuid.UUID, entryDate string) *DailySummary {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, summaryCacheKey(userID, entryDate)).Bytes()
	if err != nil {
		return nil
	}
	var summary DailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *CalorieService) cacheSummary(ctx context.Context, userID uuid.UUID, entryDate string, summary *DailySummary) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, summaryCacheKey(userID, entryDate), data, summaryCacheTTL).Err(); err != nil {
		log.Printf("failed to cache daily summary: %v", err)
	}
}

func (s *CalorieService) invalidateSummary(ctx context.Context, userID uuid.UUID, entryDate string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey(userID, entryDate)).Err(); err != nil {
		log.Printf("failed to invalidate daily summary cache: %v", err)
	}
}

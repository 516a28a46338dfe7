package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/types"
)

// Profile states as individual fields are learned through merge.
const (
	ProfileStateEmpty    = "empty"
	ProfileStatePartial  = "partial"
	ProfileStateComplete = "complete"
)

const tdeeGatewayApology = "I'm sorry, I couldn't reach the coach just now. Please try again in a moment."

// activityMultipliers maps the named activity levels to their TDEE factors.
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// goalOffsetDefaults applies when the caller-or-model-supplied offset is zero
// or absent.
var goalOffsetDefaults = map[string]float64{
	"bulk":     300,
	"cut":      -500,
	"maintain": 0,
}

// TdeeChatResult is the boundary response for one coach turn.
type TdeeChatResult struct {
	Reply      string          `json:"reply"`
	TdeeResult *TdeeExtraction `json:"tdee_result,omitempty"`
}

// TdeeService reconciles coach-chat extractions with known profile state and
// owns the TdeeProfile row.
type TdeeService struct {
	db    *gorm.DB
	model ChatModel
}

var _ ITdeeService = (*TdeeService)(nil)

// NewTdeeService creates a new TdeeService instance. The chat model is an
// explicit dependency so tests can substitute a double.
func NewTdeeService(db *gorm.DB, model ChatModel) *TdeeService {
	return &TdeeService{db: db, model: model}
}

// GetProfile retrieves a user's TDEE profile
func (s *TdeeService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.TdeeProfile, error) {
	var profile models.TdeeProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// SaveProfile creates or updates the one profile row for a user in a single
// conditional upsert, so concurrent saves cannot race a duplicate row into
// existence.
func (s *TdeeService) SaveProfile(ctx context.Context, userID uuid.UUID, req *types.SaveTdeeProfileRequest) (*models.TdeeProfile, error) {
	if req.GoalType != "" {
		if _, known := goalOffsetDefaults[req.GoalType]; !known {
			return nil, fmt.Errorf("%w: unknown goal type %q", ErrValidation, req.GoalType)
		}
	}
	if !isFinite(req.TdeeValue) || !isFinite(req.GoalOffset) || !isFinite(req.GoalCalories) {
		return nil, fmt.Errorf("%w: numeric fields must be finite", ErrValidation)
	}

	profile := models.TdeeProfile{
		UserID:        userID,
		Age:           req.Age,
		Gender:        req.Gender,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: req.ActivityLevel,
		TdeeValue:     req.TdeeValue,
		GoalType:      req.GoalType,
		GoalOffset:    req.GoalOffset,
		GoalCalories:  req.GoalCalories,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age", "gender", "height_cm", "weight_kg",
			"activity_level", "tdee_value", "goal_type", "goal_offset", "goal_calories",
			"updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// getOrCreateProfile lazily creates an empty profile on first contact. The
// insert is conflict-tolerant so two concurrent first turns converge on one
// row.
func (s *TdeeService) getOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.TdeeProfile, error) {
	profile := models.TdeeProfile{UserID: userID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// Chat handles one coach turn: append the user message, call the model with
// the full history, parse, reconcile, commit when ready, then append the
// assistant message.
func (s *TdeeService) Chat(ctx context.Context, userID uuid.UUID, req *types.TdeeChatRequest) (*TdeeChatResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the user's turn is durable before the gateway is ever invoked
	if _, err := appendChatTurn(ctx, s.db, profile.ID, models.ChatOwnerTdee, models.ChatRoleUser, req.Message); err != nil {
		return nil, fmt.Errorf("failed to append user turn: %w", err)
	}

	turns, err := listChatTurns(ctx, s.db, profile.ID, models.ChatOwnerTdee)
	if err != nil {
		return nil, err
	}

	raw, err := s.model.Complete(ctx, coachSystemPrompt(&user, profile), chatTurnsToMessages(turns))
	if err != nil {
		if errors.Is(err, ErrGatewayUnavailable) {
			log.Printf("tdee chat: gateway unavailable for user %s: %v", userID, err)
			return &TdeeChatResult{Reply: tdeeGatewayApology}, nil
		}
		return nil, err
	}

	visible, extraction := ParseTdeeExtraction(raw)

	result := &TdeeChatResult{Reply: visible}
	if extraction != nil {
		merged := s.reconcile(&user, profile, req, extraction)
		result.TdeeResult = merged

		if merged.ReadyToSave {
			// commit before the assistant turn so a stored conversation
			// never claims a save that didn't happen
			if _, err := s.commitProfile(ctx, userID, merged); err != nil {
				return nil, err
			}
		}
	}

	if _, err := appendChatTurn(ctx, s.db, profile.ID, models.ChatOwnerTdee, models.ChatRoleAssistant, visible); err != nil {
		return nil, fmt.Errorf("failed to append assistant turn: %w", err)
	}

	return result, nil
}

// reconcile merges one extraction with known state under the fixed priority
// order: caller-supplied this turn, then persisted profile/user record, then
// the extraction itself. A field already known at a higher priority is never
// overwritten, so extractions fill gaps without downgrading truth.
func (s *TdeeService) reconcile(user *models.User, profile *models.TdeeProfile, req *types.TdeeChatRequest, extracted *TdeeExtraction) *TdeeExtraction {
	merged := &TdeeExtraction{}

	merged.Age = firstInt(req.Age, profile.Age, knownInt(user.Age), knownInt(extracted.Age))
	merged.Gender = firstString(req.Gender, profile.Gender, knownString(user.Gender), knownString(extracted.Gender))
	merged.HeightCm = firstFloat(req.HeightCm, profile.HeightCm, knownFloat(user.HeightCm), knownFloat(extracted.HeightCm))
	merged.WeightKg = firstFloat(req.WeightKg, profile.WeightKg, knownFloat(user.WeightKg), knownFloat(extracted.WeightKg))
	merged.ActivityLevel = firstString(req.ActivityLevel, knownString(profile.ActivityLevel), knownString(extracted.ActivityLevel))
	merged.GoalType = firstString(req.GoalType, knownString(profile.GoalType), knownString(extracted.GoalType))
	merged.TdeeValue = firstFloat(knownFloat(profile.TdeeValue), knownFloat(extracted.TdeeValue))
	merged.GoalOffset = firstFloat(req.GoalOffset, knownFloat(profile.GoalOffset), knownFloat(extracted.GoalOffset))

	// deterministic fallback when the model omitted the number but every
	// biometric input is known
	if merged.TdeeValue == 0 {
		if tdee, ok := computeTdee(merged.Age, merged.Gender, merged.HeightCm, merged.WeightKg, merged.ActivityLevel); ok {
			merged.TdeeValue = tdee
		}
	}

	if merged.GoalOffset == 0 && merged.GoalType != "" {
		merged.GoalOffset = goalOffsetDefaults[merged.GoalType]
	}
	merged.GoalCalories = merged.TdeeValue + merged.GoalOffset

	merged.ReadyToSave = extracted.ReadyToSave && profileCommitReady(merged)
	return merged
}

// profileCommitReady is the commit predicate: every energy field present and
// finite.
func profileCommitReady(e *TdeeExtraction) bool {
	if e.ActivityLevel == "" || e.GoalType == "" {
		return false
	}
	if _, known := goalOffsetDefaults[e.GoalType]; !known {
		return false
	}
	if e.TdeeValue <= 0 || e.GoalCalories <= 0 {
		return false
	}
	return isFinite(e.TdeeValue) && isFinite(e.GoalOffset) && isFinite(e.GoalCalories)
}

func (s *TdeeService) commitProfile(ctx context.Context, userID uuid.UUID, merged *TdeeExtraction) (*models.TdeeProfile, error) {
	save := &types.SaveTdeeProfileRequest{
		ActivityLevel: merged.ActivityLevel,
		TdeeValue:     merged.TdeeValue,
		GoalType:      merged.GoalType,
		GoalOffset:    merged.GoalOffset,
		GoalCalories:  merged.GoalCalories,
	}
	if merged.Age > 0 {
		save.Age = &merged.Age
	}
	if merged.Gender != "" {
		save.Gender = &merged.Gender
	}
	if merged.HeightCm > 0 {
		save.HeightCm = &merged.HeightCm
	}
	if merged.WeightKg > 0 {
		save.WeightKg = &merged.WeightKg
	}
	return s.SaveProfile(ctx, userID, save)
}

// ProfileState classifies a profile row for the EMPTY -> PARTIAL -> COMPLETE
// progression. A complete profile never reverts to partial through an
// extraction that omits fields, because merge keeps the stored values.
func ProfileState(p *models.TdeeProfile) string {
	e := &TdeeExtraction{
		ActivityLevel: p.ActivityLevel,
		TdeeValue:     p.TdeeValue,
		GoalType:      p.GoalType,
		GoalOffset:    p.GoalOffset,
		GoalCalories:  p.GoalCalories,
	}
	if profileCommitReady(e) {
		return ProfileStateComplete
	}
	if p.Age == nil && p.Gender == nil && p.HeightCm == nil && p.WeightKg == nil &&
		p.ActivityLevel == "" && p.TdeeValue == 0 && p.GoalType == "" && p.GoalCalories == 0 {
		return ProfileStateEmpty
	}
	return ProfileStatePartial
}

// computeTdee applies the Mifflin-St Jeor formula. Only "male" and "female"
// are accepted; any other gender leaves the value uncomputed.
func computeTdee(age int, gender string, heightCm, weightKg float64, activityLevel string) (float64, bool) {
	if age <= 0 || heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	multiplier, ok := activityMultiplier(activityLevel)
	if !ok {
		return 0, false
	}

	var bmr float64
	switch gender {
	case "male":
		bmr = 10*weightKg + 6.25*heightCm - 5*float64(age) + 5
	case "female":
		bmr = 10*weightKg + 6.25*heightCm - 5*float64(age) - 161
	default:
		return 0, false
	}

	return bmr * multiplier, true
}

// activityMultiplier resolves a named level or a bare numeric factor.
func activityMultiplier(level string) (float64, bool) {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m, true
	}
	if m, err := strconv.ParseFloat(strings.TrimSpace(level), 64); err == nil && m > 0 && isFinite(m) {
		return m, true
	}
	return 0, false
}

func coachSystemPrompt(user *models.User, profile *models.TdeeProfile) string {
	var b strings.Builder
	b.WriteString("You are an expert AI fitness coach for Athleticore. Help the user pick a fitness goal (\"cut\", \"bulk\" or \"maintain\"), determine their activity level (\"sedentary\", \"lightly_active\", \"moderately_active\", \"very_active\" or \"extremely_active\") and estimate their TDEE and goal calories.\n\n")

	b.WriteString("User information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", user.Username)
	if age := firstInt(profile.Age, knownInt(user.Age)); age > 0 {
		fmt.Fprintf(&b, "- Age: %d\n", age)
	}
	if gender := firstString(profile.Gender, knownString(user.Gender)); gender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", gender)
	}
	if height := firstFloat(profile.HeightCm, knownFloat(user.HeightCm)); height > 0 {
		fmt.Fprintf(&b, "- Height: %.0f cm\n", height)
	}
	if weight := firstFloat(profile.WeightKg, knownFloat(user.WeightKg)); weight > 0 {
		fmt.Fprintf(&b, "- Weight: %.0f kg\n", weight)
	}

	b.WriteString(`
Be conversational and ask clarifying questions about activity and goals.
When you have determined the values, append a JSON object in exactly this format at the end of your reply:
{
    "activity_level": "moderately_active",
    "tdee_value": 2500.0,
    "goal_type": "cut",
    "goal_offset": -500,
    "goal_calories": 2000.0,
    "ready_to_save": true
}
Only include the JSON once you have all the information; otherwise continue the conversation naturally.`)
	return b.String()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Merge helpers. A value counts as known when it is non-nil and non-zero;
// the first known value wins.

func firstInt(candidates ...*int) int {
	for _, c := range candidates {
		if c != nil && *c != 0 {
			return *c
		}
	}
	return 0
}

func firstString(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

func firstFloat(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil && *c != 0 {
			return *c
		}
	}
	return 0
}

func knownInt(v int) *int           { return &v }
func knownString(v string) *string  { return &v }
func knownFloat(v float64) *float64 { return &v }

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/testhelpers"
	"github.com/athleticore/backend/internal/types"
)

func TestComputeTdee(t *testing.T) {
	// Mifflin-St Jeor: 10*80 + 6.25*180 - 5*30 + 5 = 1780
	tdee, ok := computeTdee(30, "male", 180, 80, "moderately_active")
	require.True(t, ok)
	assert.InDelta(t, 1780*1.55, tdee, 0.001)

	// female variant subtracts 161 instead of adding 5
	tdee, ok = computeTdee(30, "female", 180, 80, "sedentary")
	require.True(t, ok)
	assert.InDelta(t, 1614*1.2, tdee, 0.001)
}

func TestComputeTdeeRejectsUnknownInputs(t *testing.T) {
	_, ok := computeTdee(30, "other", 180, 80, "sedentary")
	assert.False(t, ok, "only male and female have formula constants")

	_, ok = computeTdee(0, "male", 180, 80, "sedentary")
	assert.False(t, ok)

	_, ok = computeTdee(30, "male", 180, 80, "olympic")
	assert.False(t, ok)
}

func TestActivityMultiplier(t *testing.T) {
	m, ok := activityMultiplier("extremely_active")
	require.True(t, ok)
	assert.Equal(t, 1.9, m)

	m, ok = activityMultiplier(" Moderately_Active ")
	require.True(t, ok)
	assert.Equal(t, 1.55, m)

	m, ok = activityMultiplier("1.45")
	require.True(t, ok)
	assert.Equal(t, 1.45, m)

	_, ok = activityMultiplier("-2")
	assert.False(t, ok)

	_, ok = activityMultiplier("couch")
	assert.False(t, ok)
}

func TestReconcilePriorityOrder(t *testing.T) {
	svc := &TdeeService{}

	reqWeight := 82.0
	profileHeight := 178.0
	user := &models.User{Age: 30, Gender: "male", HeightCm: 180, WeightKg: 80}
	profile := &models.TdeeProfile{HeightCm: &profileHeight}
	req := &types.TdeeChatRequest{WeightKg: &reqWeight}
	extracted := &TdeeExtraction{
		Age:           25,
		HeightCm:      190,
		WeightKg:      70,
		ActivityLevel: "moderately_active",
		GoalType:      "maintain",
	}

	merged := svc.reconcile(user, profile, req, extracted)

	assert.Equal(t, 82.0, merged.WeightKg, "caller input outranks everything")
	assert.Equal(t, 178.0, merged.HeightCm, "stored profile outranks the extraction")
	assert.Equal(t, 30, merged.Age, "account record outranks the extraction")
	assert.Equal(t, "moderately_active", merged.ActivityLevel, "extraction fills true gaps")
}

func TestReconcileNeverDowngradesKnownTruth(t *testing.T) {
	svc := &TdeeService{}

	age := 40
	gender := "female"
	height := 165.0
	weight := 60.0
	profile := &models.TdeeProfile{
		Age: &age, Gender: &gender, HeightCm: &height, WeightKg: &weight,
		ActivityLevel: "very_active", TdeeValue: 2400, GoalType: "bulk", GoalOffset: 300, GoalCalories: 2700,
	}
	extracted := &TdeeExtraction{
		Age: 22, Gender: "male", HeightCm: 180, WeightKg: 90,
		ActivityLevel: "sedentary", TdeeValue: 1800, GoalType: "cut", GoalOffset: -500, GoalCalories: 1300,
		ReadyToSave: true,
	}

	merged := svc.reconcile(&models.User{}, profile, &types.TdeeChatRequest{}, extracted)

	assert.Equal(t, 40, merged.Age)
	assert.Equal(t, "female", merged.Gender)
	assert.Equal(t, 165.0, merged.HeightCm)
	assert.Equal(t, 60.0, merged.WeightKg)
	assert.Equal(t, "very_active", merged.ActivityLevel)
	assert.Equal(t, 2400.0, merged.TdeeValue)
	assert.Equal(t, "bulk", merged.GoalType)
	assert.Equal(t, 2700.0, merged.GoalCalories)
}

func TestReconcileComputesTdeeFallback(t *testing.T) {
	svc := &TdeeService{}

	user := &models.User{Age: 30, Gender: "male", HeightCm: 180, WeightKg: 80}
	extracted := &TdeeExtraction{
		ActivityLevel: "moderately_active",
		GoalType:      "cut",
		ReadyToSave:   true,
	}

	merged := svc.reconcile(user, &models.TdeeProfile{}, &types.TdeeChatRequest{}, extracted)

	assert.InDelta(t, 1780*1.55, merged.TdeeValue, 0.001)
	assert.Equal(t, -500.0, merged.GoalOffset, "cut defaults to a 500 deficit")
	assert.InDelta(t, 1780*1.55-500, merged.GoalCalories, 0.001)
	assert.True(t, merged.ReadyToSave)
}

func TestReconcileGoalOffsetDefaults(t *testing.T) {
	svc := &TdeeService{}

	for goal, want := range map[string]float64{"bulk": 300, "cut": -500, "maintain": 0} {
		extracted := &TdeeExtraction{ActivityLevel: "sedentary", TdeeValue: 2000, GoalType: goal}
		merged := svc.reconcile(&models.User{}, &models.TdeeProfile{}, &types.TdeeChatRequest{}, extracted)
		assert.Equal(t, want, merged.GoalOffset, "goal %s", goal)
		assert.Equal(t, 2000+want, merged.GoalCalories, "goal %s", goal)
	}
}

func TestReconcileReadyRequiresCompleteProfile(t *testing.T) {
	svc := &TdeeService{}

	// the model says ready but activity level is unknown everywhere
	extracted := &TdeeExtraction{TdeeValue: 2500, GoalType: "maintain", ReadyToSave: true}
	merged := svc.reconcile(&models.User{}, &models.TdeeProfile{}, &types.TdeeChatRequest{}, extracted)
	assert.False(t, merged.ReadyToSave)
}

func TestSaveProfileUpsertIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "upserter")
	svc := NewTdeeService(db, &scriptedModel{})
	ctx := context.Background()

	first, err := svc.SaveProfile(ctx, user.ID, &types.SaveTdeeProfileRequest{
		ActivityLevel: "sedentary", TdeeValue: 2000, GoalType: "maintain", GoalCalories: 2000,
	})
	require.NoError(t, err)

	second, err := svc.SaveProfile(ctx, user.ID, &types.SaveTdeeProfileRequest{
		ActivityLevel: "very_active", TdeeValue: 2800, GoalType: "bulk", GoalOffset: 300, GoalCalories: 3100,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "repeat saves update the one row in place")
	assert.Equal(t, "very_active", second.ActivityLevel)
	assert.Equal(t, 2800.0, second.TdeeValue)

	var count int64
	require.NoError(t, db.Model(&models.TdeeProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaveProfileRejectsUnknownGoal(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "badgoal")
	svc := NewTdeeService(db, &scriptedModel{})

	_, err := svc.SaveProfile(context.Background(), user.ID, &types.SaveTdeeProfileRequest{
		ActivityLevel: "sedentary", TdeeValue: 2000, GoalType: "shred", GoalCalories: 2000,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetProfileNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "noprofile")
	svc := NewTdeeService(db, &scriptedModel{})

	_, err := svc.GetProfile(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChatCommitsProfileWhenReady(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUserWithStats(t, db, "committer", 30, "male", 180, 80)
	model := &scriptedModel{replies: []string{
		`You're all set! {"activity_level": "moderately_active", "tdee_value": 2759.0, "goal_type": "cut", "goal_offset": -500, "goal_calories": 2259.0, "ready_to_save": true}`,
	}}
	svc := NewTdeeService(db, model)
	ctx := context.Background()

	result, err := svc.Chat(ctx, user.ID, &types.TdeeChatRequest{Message: "I want to cut"})
	require.NoError(t, err)
	assert.Equal(t, "You're all set!", result.Reply)
	require.NotNil(t, result.TdeeResult)
	assert.True(t, result.TdeeResult.ReadyToSave)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ProfileStateComplete, ProfileState(profile))
	assert.Equal(t, 2759.0, profile.TdeeValue)
	assert.Equal(t, "cut", profile.GoalType)
	assert.Equal(t, 2259.0, profile.GoalCalories)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 30, *profile.Age, "account biometrics fill the committed profile")

	turns, err := listChatTurns(ctx, db, profile.ID, models.ChatOwnerTdee)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.ChatRoleUser, turns[0].Role)
	assert.Equal(t, "I want to cut", turns[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, turns[1].Role)
	assert.Equal(t, "You're all set!", turns[1].Content, "the stored turn is the stripped reply")
}

func TestChatPlainReplyLeavesProfileEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "chatter")
	model := &scriptedModel{replies: []string{"How active are you day to day?"}}
	svc := NewTdeeService(db, model)
	ctx := context.Background()

	result, err := svc.Chat(ctx, user.ID, &types.TdeeChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "How active are you day to day?", result.Reply)
	assert.Nil(t, result.TdeeResult)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ProfileStateEmpty, ProfileState(profile))
}

func TestChatHistoryAccumulatesAcrossTurns(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "historian")
	model := &scriptedModel{replies: []string{"Tell me more.", "Got it."}}
	svc := NewTdeeService(db, model)
	ctx := context.Background()

	_, err := svc.Chat(ctx, user.ID, &types.TdeeChatRequest{Message: "first"})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, user.ID, &types.TdeeChatRequest{Message: "second"})
	require.NoError(t, err)

	// the second call sees the whole ordered conversation
	require.Len(t, model.lastMessages, 3)
	assert.Equal(t, "first", model.lastMessages[0].Content)
	assert.Equal(t, "Tell me more.", model.lastMessages[1].Content)
	assert.Equal(t, "second", model.lastMessages[2].Content)
}

func TestChatGatewayFailureKeepsUserTurnOnly(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user := testhelpers.CreateTestUser(t, db, "unlucky")
	model := &scriptedModel{err: fmt.Errorf("%w: connection refused", ErrGatewayUnavailable)}
	svc := NewTdeeService(db, model)
	ctx := context.Background()

	result, err := svc.Chat(ctx, user.ID, &types.TdeeChatRequest{Message: "hello?"})
	require.NoError(t, err, "a gateway outage is a degraded reply, not a request failure")
	assert.Equal(t, tdeeGatewayApology, result.Reply)
	assert.Nil(t, result.TdeeResult)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	turns, err := listChatTurns(ctx, db, profile.ID, models.ChatOwnerTdee)
	require.NoError(t, err)
	require.Len(t, turns, 1, "the user turn is durable, the apology is not stored")
	assert.Equal(t, models.ChatRoleUser, turns[0].Role)
}

func TestChatUnknownUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewTdeeService(db, &scriptedModel{replies: []string{"hi"}})

	_, err := svc.Chat(context.Background(), uuid.New(), &types.TdeeChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileStateProgression(t *testing.T) {
	assert.Equal(t, ProfileStateEmpty, ProfileState(&models.TdeeProfile{}))

	age := 30
	assert.Equal(t, ProfileStatePartial, ProfileState(&models.TdeeProfile{Age: &age}))

	assert.Equal(t, ProfileStateComplete, ProfileState(&models.TdeeProfile{
		ActivityLevel: "sedentary", TdeeValue: 2000, GoalType: "maintain", GoalCalories: 2000,
	}))
}

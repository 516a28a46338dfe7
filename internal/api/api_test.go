package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athleticore/backend/internal/api"
	"github.com/athleticore/backend/internal/middleware"
	"github.com/athleticore/backend/internal/mocks"
	"github.com/athleticore/backend/internal/router"
	"github.com/athleticore/backend/internal/service"
	"github.com/athleticore/backend/internal/testhelpers"
)

type apiFixture struct {
	router *gin.Engine
	model  *mocks.ChatModel
	email  *mocks.EmailService
}

func setupAPITest(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	model := &mocks.ChatModel{}
	email := &mocks.EmailService{}

	authService := service.NewAuthService(db, "test-secret")
	tdeeService := service.NewTdeeService(db, model)
	foodService := service.NewFoodFeedService(db, model)
	calorieService := service.NewCalorieService(db, nil, model, tdeeService)
	workoutService := service.NewWorkoutService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, email),
		api.NewTdeeHandler(tdeeService),
		api.NewFoodFeedHandler(foodService),
		api.NewCalorieHandler(calorieService),
		api.NewWorkoutHandler(workoutService),
		authService,
		middleware.NewChatRateLimiter(nil),
	)

	return &apiFixture{router: engine, model: model, email: email}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) registerUser(t *testing.T, username string) string {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	f := setupAPITest(t)

	f.registerUser(t, "newcomer")
	assert.Equal(t, []string{"newcomer@example.com"}, f.email.Sent)

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "newcomer@example.com",
		"password":   "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "newcomer",
		"password":   "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code, "username works as the identifier")

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "newcomer@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPasswordFlow(t *testing.T) {
	f := setupAPITest(t)
	f.registerUser(t, "locked-out")

	w := f.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]any{
		"email": "locked-out@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, f.email.TempPasswords, 1)
	tempPassword := f.email.TempPasswords[0]

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "locked-out@example.com",
		"password":   "supersecret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the old password is gone")

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "locked-out@example.com",
		"password":   tempPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code, "the mailed temporary password logs in")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := setupAPITest(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]any{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.email.TempPasswords)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	f := setupAPITest(t)
	f.registerUser(t, "taken")

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "taken",
		"email":    "other@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := setupAPITest(t)

	w := f.do(t, http.MethodGet, "/api/v1/tdee/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/tdee/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTdeeChatCommitsProfile(t *testing.T) {
	f := setupAPITest(t)
	token := f.registerUser(t, "coachee")

	w := f.do(t, http.MethodGet, "/api/v1/tdee/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no profile before the first coach contact")

	f.model.Replies = []string{
		`You're all set! {"activity_level": "moderately_active", "tdee_value": 2759.0, "goal_type": "cut", "goal_offset": -500, "goal_calories": 2259.0, "ready_to_save": true}`,
	}
	w = f.do(t, http.MethodPost, "/api/v1/tdee/chat", token, map[string]any{
		"message":   "I want to cut",
		"age":       30,
		"gender":    "male",
		"height_cm": 180,
		"weight_kg": 80,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var chatResp struct {
		Reply      string `json:"reply"`
		TdeeResult *struct {
			ReadyToSave bool `json:"ready_to_save"`
		} `json:"tdee_result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chatResp))
	assert.Equal(t, "You're all set!", chatResp.Reply)
	require.NotNil(t, chatResp.TdeeResult)
	assert.True(t, chatResp.TdeeResult.ReadyToSave)

	w = f.do(t, http.MethodGet, "/api/v1/tdee/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profileResp struct {
		State   string `json:"state"`
		Profile struct {
			GoalCalories float64 `json:"goal_calories"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profileResp))
	assert.Equal(t, service.ProfileStateComplete, profileResp.State)
	assert.Equal(t, 2259.0, profileResp.Profile.GoalCalories)
}

func TestCalorieLogLifecycle(t *testing.T) {
	f := setupAPITest(t)
	token := f.registerUser(t, "tracker")

	w := f.do(t, http.MethodPost, "/api/v1/tdee/profile", token, map[string]any{
		"activity_level": "sedentary",
		"tdee_value":     2000,
		"goal_type":      "maintain",
		"goal_calories":  2000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/calories/logs", token, map[string]any{
		"description": "big dinner",
		"calories":    2300,
		"entry_date":  "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Log struct {
			ID string `json:"id"`
		} `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = f.do(t, http.MethodGet, "/api/v1/calories/logs/today?date=2026-09-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		TotalCalories float64  `json:"total_calories"`
		GoalCalories  *float64 `json:"goal_calories"`
		Surplus       *float64 `json:"surplus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2300.0, summary.TotalCalories)
	require.NotNil(t, summary.Surplus)
	assert.Equal(t, 300.0, *summary.Surplus)

	w = f.do(t, http.MethodDelete, "/api/v1/calories/logs/"+created.Log.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/calories/logs/"+created.Log.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestZeroCalorieLogBinds(t *testing.T) {
	f := setupAPITest(t)
	token := f.registerUser(t, "hydrated")

	w := f.do(t, http.MethodPost, "/api/v1/calories/logs", token, map[string]any{
		"description": "water",
		"calories":    0,
		"entry_date":  "2026-09-01",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestWorkoutPatchRoute(t *testing.T) {
	f := setupAPITest(t)
	token := f.registerUser(t, "sculptor")

	w := f.do(t, http.MethodPost, "/api/v1/workouts", token, map[string]any{
		"workout_name": "Push Day",
		"log_date":     "2026-09-01",
		"exercises": []map[string]any{
			{"exercise_name": "Bench Press", "sets": 5, "reps": 5, "order_index": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Workout struct {
			ID string `json:"id"`
		} `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = f.do(t, http.MethodPatch, "/api/v1/workouts/"+created.Workout.ID, token, map[string]any{
		"workout_name": "Heavy Push Day",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Heavy Push Day")

	w = f.do(t, http.MethodPatch, "/api/v1/workouts/"+created.Workout.ID, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "an empty patch is rejected")
}

func TestFoodChatGatewayOutageReturnsOK(t *testing.T) {
	f := setupAPITest(t)
	token := f.registerUser(t, "stoic")

	w := f.do(t, http.MethodPost, "/api/v1/food/entries", token, map[string]any{
		"content":    "mystery stew",
		"entry_date": "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry struct {
		FeedEntry struct {
			ID string `json:"id"`
		} `json:"feed_entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	f.model.Err = service.ErrGatewayUnavailable
	w = f.do(t, http.MethodPost, "/api/v1/food/entries/"+entry.FeedEntry.ID+"/chat", token, map[string]any{
		"message": "log the stew",
	})
	require.Equal(t, http.StatusOK, w.Code, "an outage degrades the reply, it does not fail the request")

	var resp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "try again")
}

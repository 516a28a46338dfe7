package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/types"
)

// ChatModel is the gateway to the language-model provider. Implementations
// are stateless: the system prompt and full ordered history arrive on every
// call, and failures surface immediately as ErrGatewayUnavailable.
type ChatModel interface {
	Complete(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	ResetPassword(ctx context.Context, email string) (*models.User, string, error)
	GenerateToken(userID uuid.UUID, username string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// ITdeeService defines the interface for TDEE profile and coach-chat operations
type ITdeeService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.TdeeProfile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, req *types.SaveTdeeProfileRequest) (*models.TdeeProfile, error)
	Chat(ctx context.Context, userID uuid.UUID, req *types.TdeeChatRequest) (*TdeeChatResult, error)
}

// IFoodFeedService defines the interface for food feed operations
type IFoodFeedService interface {
	AddEntry(ctx context.Context, userID uuid.UUID, content, entryDate string) (*models.FoodFeedEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.FoodFeedEntry, error)
	ListFeed(ctx context.Context, userID uuid.UUID, entryDate string) ([]models.FoodFeedEntry, error)
	DeleteEntry(ctx context.Context, userID, id uuid.UUID) error
	ChatHistory(ctx context.Context, entryID uuid.UUID) ([]models.ChatTurn, error)
	Chat(ctx context.Context, userID, entryID uuid.UUID, message string) (*FoodChatResult, error)
}

// ICalorieService defines the interface for calorie log operations
type ICalorieService interface {
	AddLog(ctx context.Context, userID uuid.UUID, req *types.AddCalorieLogRequest) (*models.CalorieLog, error)
	GetLog(ctx context.Context, id uuid.UUID) (*models.CalorieLog, error)
	ListLogs(ctx context.Context, userID uuid.UUID, entryDate string) ([]models.CalorieLog, error)
	UpdateLog(ctx context.Context, userID, id uuid.UUID, patch *types.CalorieLogPatch) (*models.CalorieLog, error)
	SoftDeleteLog(ctx context.Context, userID, id uuid.UUID) error
	DailyTotal(ctx context.Context, userID uuid.UUID, entryDate string) (float64, error)
	TodaySummary(ctx context.Context, userID uuid.UUID, entryDate string) (*DailySummary, error)
	QuickLogChat(ctx context.Context, userID uuid.UUID, message string, history []ChatMessage) (*FoodChatResult, error)
}

// IWorkoutService defines the interface for workout operations
type IWorkoutService interface {
	CreateWorkout(ctx context.Context, userID uuid.UUID, req *types.CreateWorkoutRequest) (*models.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, userID, id uuid.UUID, patch *types.WorkoutPatch) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendWelcomeEmail(user *models.User) error
	SendPasswordResetEmail(user *models.User, tempPassword string) error
}

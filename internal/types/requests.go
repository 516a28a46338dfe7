package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
}

// LoginRequest represents the request body for login. The identifier is a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ForgotPasswordRequest asks for a temporary password to be mailed out
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ChatRequest represents one conversational turn sent by the client
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// TdeeChatRequest carries a TDEE coach turn plus any stats the client already
// knows; supplied values outrank both the stored profile and the extraction.
type TdeeChatRequest struct {
	Message       string   `json:"message" binding:"required"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	GoalType      *string  `json:"goal_type"`
	GoalOffset    *float64 `json:"goal_offset"`
}

// SaveTdeeProfileRequest represents a direct profile save
type SaveTdeeProfileRequest struct {
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel string   `json:"activity_level" binding:"required"`
	TdeeValue     float64  `json:"tdee_value" binding:"required"`
	GoalType      string   `json:"goal_type" binding:"required,oneof=cut bulk maintain"`
	GoalOffset    float64  `json:"goal_offset"`
	GoalCalories  float64  `json:"goal_calories" binding:"required"`
}

// CreateFoodEntryRequest represents a new food feed entry
type CreateFoodEntryRequest struct {
	Content   string `json:"content" binding:"required"`
	EntryDate string `json:"entry_date"`
}

// AddCalorieLogRequest represents a manual calorie log
type AddCalorieLogRequest struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories" binding:"gte=0"`
	ProteinG    float64 `json:"protein_g" binding:"gte=0"`
	CarbsG      float64 `json:"carbs_g" binding:"gte=0"`
	FatG        float64 `json:"fat_g" binding:"gte=0"`
	EntryDate   string  `json:"entry_date"`
}

// CalorieLogPatch carries only the fields to change on an existing log.
// Nil means leave the column alone.
type CalorieLogPatch struct {
	Description *string  `json:"description"`
	Calories    *float64 `json:"calories"`
	ProteinG    *float64 `json:"protein_g"`
	CarbsG      *float64 `json:"carbs_g"`
	FatG        *float64 `json:"fat_g"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *CalorieLogPatch) IsEmpty() bool {
	return p.Description == nil && p.Calories == nil && p.ProteinG == nil && p.CarbsG == nil && p.FatG == nil
}

// WorkoutPatch carries only the workout fields to change. Nil means leave
// the column alone.
type WorkoutPatch struct {
	WorkoutName *string `json:"workout_name"`
	LogDate     *string `json:"log_date"`
	Notes       *string `json:"notes"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *WorkoutPatch) IsEmpty() bool {
	return p.WorkoutName == nil && p.LogDate == nil && p.Notes == nil
}

// ExerciseInput is one exercise inside a workout creation request
type ExerciseInput struct {
	ExerciseName   string  `json:"exercise_name" binding:"required"`
	Sets           int     `json:"sets" binding:"required,gt=0"`
	Reps           int     `json:"reps" binding:"required,gt=0"`
	WeightKg       float64 `json:"weight_kg"`
	PreviousWeight float64 `json:"previous_weight"`
	OrderIndex     int     `json:"order_index"`
	Notes          string  `json:"notes"`
}

// CreateWorkoutRequest represents a workout with its exercises
type CreateWorkoutRequest struct {
	WorkoutName string          `json:"workout_name" binding:"required"`
	LogDate     string          `json:"log_date" binding:"required"`
	Notes       string          `json:"notes"`
	Exercises   []ExerciseInput `json:"exercises" binding:"required,dive"`
}

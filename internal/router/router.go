package router

import (
	"github.com/gin-gonic/gin"

	"github.com/athleticore/backend/internal/api"
	"github.com/athleticore/backend/internal/middleware"
	"github.com/athleticore/backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	tdeeHandler *api.TdeeHandler,
	foodFeedHandler *api.FoodFeedHandler,
	calorieHandler *api.CalorieHandler,
	workoutHandler *api.WorkoutHandler,
	authService service.IAuthService,
	chatLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		tdee := protected.Group("/tdee")
		{
			tdee.GET("/profile", tdeeHandler.GetProfile)
			tdee.POST("/profile", tdeeHandler.SaveProfile)
			tdee.POST("/chat", chatLimiter.RateLimitMiddleware(), tdeeHandler.Chat)
		}

		food := protected.Group("/food")
		{
			food.POST("/entries", foodFeedHandler.CreateEntry)
			food.GET("/feed", foodFeedHandler.ListFeed)
			food.GET("/entries/:id", foodFeedHandler.GetEntry)
			food.DELETE("/entries/:id", foodFeedHandler.DeleteEntry)
			food.POST("/entries/:id/chat", chatLimiter.RateLimitMiddleware(), foodFeedHandler.Chat)
		}

		calories := protected.Group("/calories")
		{
			calories.POST("/logs", calorieHandler.AddLog)
			calories.GET("/logs", calorieHandler.ListLogs)
			calories.GET("/logs/today", calorieHandler.TodaySummary)
			calories.GET("/logs/:id", calorieHandler.GetLog)
			calories.PATCH("/logs/:id", calorieHandler.UpdateLog)
			calories.DELETE("/logs/:id", calorieHandler.DeleteLog)
			calories.POST("/chat", chatLimiter.RateLimitMiddleware(), calorieHandler.Chat)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.PATCH("/:id", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
		}
	}

	return router
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athleticore/backend/config"
	"github.com/athleticore/backend/internal/api"
	"github.com/athleticore/backend/internal/database"
	"github.com/athleticore/backend/internal/middleware"
	"github.com/athleticore/backend/internal/router"
	"github.com/athleticore/backend/internal/server"
	"github.com/athleticore/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	llmService, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	emailService := service.NewEmailService(cfg)
	tdeeService := service.NewTdeeService(db, llmService)
	foodFeedService := service.NewFoodFeedService(db, llmService)
	calorieService := service.NewCalorieService(db, redisClient, llmService, tdeeService)
	workoutService := service.NewWorkoutService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, emailService),
		api.NewTdeeHandler(tdeeService),
		api.NewFoodFeedHandler(foodFeedService),
		api.NewCalorieHandler(calorieService),
		api.NewWorkoutHandler(workoutService),
		authService,
		middleware.NewChatRateLimiter(redisClient),
	)

	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

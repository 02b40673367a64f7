package main

import (
	"log"

	api "cpsheet-backend/cmd/api"
	authdomain "cpsheet-backend/internal/auth/domain"
	authRepo "cpsheet-backend/internal/auth/repository"
	"cpsheet-backend/internal/auth/scheduler"
	authUsecase "cpsheet-backend/internal/auth/usecase"
	problemdomain "cpsheet-backend/internal/problem/domain"
	problemRepo "cpsheet-backend/internal/problem/repository"
	problemUsecase "cpsheet-backend/internal/problem/usecase"
	"cpsheet-backend/pkg/config"
	"cpsheet-backend/pkg/database"
	"cpsheet-backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.EmailChange{}, &problemdomain.Problem{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	emailChangeRepo := authRepo.NewEmailChangeRepository(db)
	problemRepository := problemRepo.NewProblemRepository(db)

	// Initialize mailer
	smtpMailer := mailer.NewSMTPMailer(cfg)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, emailChangeRepo, smtpMailer, cfg)
	problemUsecaseInstance := problemUsecase.NewProblemUsecase(problemRepository)

	// Start the TTL sweep for abandoned email-change requests
	sweeper := scheduler.NewEmailChangeSweeper(emailChangeRepo)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, problemUsecaseInstance, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"happyschools/internal/config"
	"happyschools/internal/database"
	"happyschools/internal/handlers"
	"happyschools/internal/repository"
	"happyschools/internal/security"
	"happyschools/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg.DatabaseEngine, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (engine: %s)", cfg.DatabaseEngine)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	riddleRepo := repository.NewRiddleRepository(db)
	wordRepo := repository.NewWordRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, invitationRepo, cfg.JWTSecret, cfg.TokenDuration)
	riddleService := service.NewRiddleService(riddleRepo)
	wordService := service.NewWordChainService(wordRepo)
	quizService := service.NewQuizService(quizRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Seed game content
	if err := riddleService.SeedDefaultRiddles(); err != nil {
		log.Printf("Warning: Failed to seed riddles: %v", err)
	}
	if err := wordService.SeedDefaultWords(); err != nil {
		log.Printf("Warning: Failed to seed word chain phrases: %v", err)
	}

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)
	gameHandler := handlers.NewGameHandler(riddleService, wordService)
	quizHandler := handlers.NewQuizHandler(quizService)
	invitationHandler := handlers.NewInvitationHandler(invitationRepo, emailService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/google/start", oauthHandler.Start)
	mux.HandleFunc("GET /api/auth/google/callback", oauthHandler.Callback)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))

	// Game routes
	mux.HandleFunc("POST /api/ai/riddles/next", middleware.RequireAuth(gameHandler.NextRiddle))
	mux.HandleFunc("POST /api/ai/riddles/check", middleware.RequireAuth(gameHandler.CheckRiddle))
	mux.HandleFunc("POST /api/ai/riddles/reveal", middleware.RequireAuth(gameHandler.RevealRiddle))
	mux.HandleFunc("POST /api/ai/word-chain", middleware.RequireAuth(gameHandler.WordChain))
	mux.HandleFunc("POST /api/ai/word-chain/start", middleware.RequireAuth(gameHandler.WordChainStart))
	mux.HandleFunc("POST /api/ai/word-chain/reveal", middleware.RequireAuth(gameHandler.WordChainReveal))

	// Quiz routes
	mux.HandleFunc("POST /api/quizzes", middleware.RequireTeacher(quizHandler.CreateQuiz))
	mux.HandleFunc("GET /api/quizzes", middleware.RequireTeacher(quizHandler.ListQuizzes))
	mux.HandleFunc("POST /api/quizzes/{id}/close", middleware.RequireTeacher(quizHandler.CloseQuiz))
	mux.HandleFunc("DELETE /api/quizzes/{id}", middleware.RequireTeacher(quizHandler.DeleteQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}/answers", middleware.RequireTeacher(quizHandler.GetQuizWithAnswers))
	mux.HandleFunc("GET /api/quizzes/{id}", middleware.RequireAuth(quizHandler.GetQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}/my-result", middleware.RequireAuth(quizHandler.MyResult))
	mux.HandleFunc("POST /api/quizzes/{id}/submit", middleware.RequireAuth(quizHandler.Submit))

	// Invitation routes
	mux.HandleFunc("POST /api/invitations", middleware.RequireTeacher(invitationHandler.Create))
	mux.HandleFunc("GET /api/invitations", middleware.RequireTeacher(invitationHandler.List))
	mux.HandleFunc("DELETE /api/invitations/{id}", middleware.RequireTeacher(invitationHandler.Delete))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell-backend/internal/api"
	"inkwell-backend/internal/config"
	"inkwell-backend/internal/crypto"
	"inkwell-backend/internal/handlers"
	"inkwell-backend/internal/integrations/openai"
	"inkwell-backend/internal/services"
	"inkwell-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting Inkwell Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	// Ping DB to verify connection
	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	// --- Create Content Codec for Prompt Encryption ---
	codec, err := crypto.NewCodec(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("FATAL: Failed to create content codec: %v", err)
	}
	log.Println("Content codec initialized.")

	// --- Initialize Upstream AI Client ---
	aiClient := openai.NewClient(cfg.OpenAIAPIKey, openai.WithBaseURL(cfg.OpenAIBaseURL))
	log.Println("OpenAI client initialized.")

	// --- Initialize Services ---
	authService := services.NewAuthService(pgStore, cfg)
	log.Println("AuthService initialized.")
	promptService := services.NewPromptService(pgStore, codec)
	log.Println("PromptService initialized.")
	promptReader := services.NewDecryptedPromptReader(promptService, codec)
	log.Println("DecryptedPromptReader initialized.")
	rewriteService := services.NewRewriteService(promptReader)
	log.Println("RewriteService initialized.")
	generationService := services.NewGenerationService(rewriteService, aiClient, cfg.DefaultModel)
	log.Println("GenerationService initialized.")

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	log.Println("AuthHandler initialized.")
	promptHandler := handlers.NewPromptHandler(promptService, promptReader)
	log.Println("PromptHandler initialized.")
	generateHandler := handlers.NewGenerateHandler(generationService)
	log.Println("GenerateHandler initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		AuthHandler:     authHandler,
		PromptHandler:   promptHandler,
		GenerateHandler: generateHandler,
		Config:          cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// No WriteTimeout: generation responses stream for as long as the
		// upstream model produces tokens. The router-level timeout bounds
		// each request instead.
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
		log.Fatal("Forcing shutdown due to error.")
	}

	log.Println("Server shutdown complete.")
}

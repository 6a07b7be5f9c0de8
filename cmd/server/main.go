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

	"pnuchat-backend/internal/api"
	"pnuchat-backend/internal/config"
	"pnuchat-backend/internal/handlers"
	"pnuchat-backend/internal/realtime"
	"pnuchat-backend/internal/services"
	"pnuchat-backend/internal/storage"
	"pnuchat-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting PNU Chat Backend...")

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

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Services, Handlers)

	// Realtime change feed. The store notifies it on every message write.
	hub := realtime.NewHub()
	log.Println("Realtime hub initialized.")

	pgStore := postgres.NewPostgresStore(dbpool, hub)
	log.Println("Postgres store initialized.")

	resolver := storage.NewPublicURLResolver(cfg.StorageBaseURL, cfg.StorageBucket)

	relay, err := services.NewGatewayRelay(services.GatewayConfig{
		APIKey:      cfg.GatewayAPIKey,
		BaseURL:     cfg.GatewayURL,
		TextModel:   cfg.TextModel,
		VisionModel: cfg.VisionModel,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create gateway relay: %v", err)
	}
	log.Println("Gateway relay initialized.")

	// --- Initialize Services ---
	authService := services.NewAuthService(pgStore, cfg)
	log.Println("AuthService initialized.")
	contextBuilder := services.NewContextBuilder(pgStore, resolver, nil)
	chatService := services.NewChatService(pgStore, relay, contextBuilder, cfg.DailyMessageLimit)
	log.Println("ChatService initialized.")
	conversationService := services.NewConversationService(pgStore)
	log.Println("ConversationService initialized.")
	materialService := services.NewMaterialService(pgStore, resolver)
	log.Println("MaterialService initialized.")
	contentService := services.NewContentService(pgStore)
	log.Println("ContentService initialized.")
	requestService := services.NewRequestService(pgStore)
	log.Println("RequestService initialized.")
	userService := services.NewUserService(pgStore)
	log.Println("UserService initialized.")

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandlers(chatService)
	conversationHandler := handlers.NewConversationHandlers(conversationService)
	materialHandler := handlers.NewMaterialHandlers(materialService)
	contentHandler := handlers.NewContentHandlers(contentService)
	requestHandler := handlers.NewRequestHandlers(requestService)
	userHandler := handlers.NewUserHandlers(userService)
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		AuthHandler:         authHandler,
		ChatHandler:         chatHandler,
		ConversationHandler: conversationHandler,
		MaterialHandler:     materialHandler,
		ContentHandler:      contentHandler,
		RequestHandler:      requestHandler,
		UserHandler:         userHandler,
		RealtimeHandler:     hub.Handler(),
		Roles:               authService,
		Config:              cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// No WriteTimeout: the relay and realtime endpoints stream for
		// longer than any fixed deadline.
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Realtime hub shutdown failed: %v", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}

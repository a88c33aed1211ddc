package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rendplus-backend/config"
	"rendplus-backend/internal/api"
	"rendplus-backend/internal/db"
	"rendplus-backend/internal/gateway"
	"rendplus-backend/internal/metrics"
	"rendplus-backend/internal/notification"
	"rendplus-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "rendplus-backend ", log.LstdFlags)

	// Optional; deployment environments inject variables directly.
	if err := godotenv.Load(); err == nil {
		logger.Println(".env file loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)

	// Push delivery is optional: without credentials the site still takes
	// quote submissions, it just cannot notify anyone.
	var dispatcher api.Dispatcher
	if cfg.Push.CredentialsPath != "" {
		account, err := gateway.LoadServiceAccount(cfg.Push.CredentialsPath)
		if err != nil {
			logger.Fatalf("failed to load push credentials: %v", err)
		}

		exchanger, err := gateway.NewExchanger(
			account,
			cfg.Push.TokenURL,
			cfg.Push.Scope,
			time.Duration(cfg.Push.AssertionTTLSeconds)*time.Second,
			nil,
		)
		if err != nil {
			logger.Fatalf("failed to initialize credential exchange: %v", err)
		}

		sender := gateway.NewHTTPSender(
			account.ProjectID,
			cfg.Push.SendEndpoint,
			time.Duration(cfg.Push.SendTimeoutSeconds)*time.Second,
		)
		dispatcher = notification.NewDispatcher(appStore, exchanger, sender)
		logger.Printf("push delivery enabled for project %s", account.ProjectID)
	} else {
		logger.Println("push credentials not configured, notification delivery disabled")
	}

	metrics.Register()

	router := api.NewRouter(appStore, dispatcher, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

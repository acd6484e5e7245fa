package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codecampus/internal/api"
	"codecampus/internal/app/service"
	"codecampus/internal/common/security"
	"codecampus/internal/domain/repository"
	"codecampus/internal/gateway"
	"codecampus/internal/platform/config"
	"codecampus/internal/platform/logger"
	"codecampus/internal/platform/storage"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Logger
	appLogger, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("configuration loaded")

	// 3. Initialize JWT
	security.InitJWT()

	// 4. Initialize Storage
	store, err := openStore()
	if err != nil {
		appLogger.Fatal("could not open storage backend", "backend", config.AppConfig.StorageBackend, "error", err)
	}
	defer store.Close()
	appLogger.Info("storage backend ready", "backend", config.AppConfig.StorageBackend)

	// 5. Initialize Execution Gateway
	var executor gateway.CodeExecutionService
	if config.AppConfig.GeminiAPIKey == "" {
		executor = gateway.NewDisabledGateway()
		appLogger.Warn("GEMINI_API_KEY not set, execution endpoints will answer 503")
	} else {
		executor, err = gateway.NewGeminiGateway(
			config.AppConfig.GeminiAPIKey,
			config.AppConfig.GeminiModel,
			config.AppConfig.GatewayTimeout,
		)
		if err != nil {
			appLogger.Fatal("could not initialize execution gateway", "error", err)
		}
		appLogger.Info("execution gateway ready", "model", config.AppConfig.GeminiModel)
	}

	// 6. Initialize Repositories
	profileRepo := repository.NewKVProfileRepository(
		store, config.AppConfig.ProfilesKey, config.AppConfig.SessionKey, appLogger)
	challengeRepo := repository.NewKVChallengeRepository(
		store, config.AppConfig.ChallengesKey, appLogger)

	// 7. Initialize Services
	authService := service.NewAuthService(profileRepo, appLogger)
	catalogService := service.NewCatalogService(challengeRepo, appLogger)
	submissionService := service.NewSubmissionService(profileRepo, catalogService, executor, appLogger)
	navService := service.NewNavigationService(catalogService.Classifier())

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, catalogService, submissionService, navService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // gateway calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLogger.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("could not listen", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop

	appLogger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("server shutdown failed", "error", err)
	}
	appLogger.Info("server stopped gracefully")
}

func openStore() (storage.Store, error) {
	cfg := config.AppConfig
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		return storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "postgres":
		return storage.NewPostgresStore(cfg.DBConnStr)
	default:
		return storage.NewSQLiteStore(cfg.SQLitePath)
	}
}

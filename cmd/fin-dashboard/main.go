package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fin-dashboard/internal/api"
	"fin-dashboard/internal/api/handlers"
	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/repository"
	"fin-dashboard/internal/service"
	"fin-dashboard/pkg/auth"
	"fin-dashboard/pkg/config"
	"fin-dashboard/pkg/logger"
	"fin-dashboard/pkg/postgres"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

// @title Finance Dashboard API
// @version 1.0
// @description Personal finance records with a chat assistant that turns messages into database operations.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finance dashboard service")

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(&cfg.Database, cfg.Migrations.Path, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, appLogger)
	recordRepo := repository.NewRecordRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	dispatcher := dispatch.NewDispatcher(recordRepo, llmService, cfg.Chat.ContextRecords, appLogger.Named("dispatch"))
	extractionService := service.NewExtractionService(appLogger)
	chatService := service.NewChatService(dispatcher, extractionService, appLogger)
	exportService := service.NewExportService(appLogger)
	recordService := service.NewRecordService(recordRepo, exportService, cfg.Forecast.StartingBalance, appLogger)

	app := api.SetupRouter(api.Handlers{
		Auth:    handlers.NewAuthHandler(authService, appLogger),
		Chat:    handlers.NewChatHandler(chatService, int64(cfg.Upload.MaxBytes), appLogger),
		Records: handlers.NewRecordHandler(recordService, chatService, appLogger),
		Finance: handlers.NewFinanceHandler(recordService, appLogger),
	}, jwtManager, api.RouterConfig{
		BodyLimit:    cfg.Upload.MaxBytes + uploadOverhead,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

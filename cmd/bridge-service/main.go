package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openalgo-sheets/internal/bridge/config"
	delivery "openalgo-sheets/internal/bridge/delivery/http"
	"openalgo-sheets/internal/bridge/repository"
	"openalgo-sheets/internal/bridge/service"
	"openalgo-sheets/pkg/logger"
	"openalgo-sheets/pkg/postgres"
	"openalgo-sheets/pkg/redis"
	"openalgo-sheets/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sheet bridge service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Sheet Bridge Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis when the response cache is enabled
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err = redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	// Initialize Telegram notifier when order alerts are enabled
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	openAlgoRepo := repository.NewOpenAlgoRepository(cfg, appLogger)
	auditRepo := repository.NewAPICallLogRepository(db.DB)

	// Initialize services
	auditSvc := service.NewAuditService(auditRepo, appLogger, cfg.Audit.RetentionDays)
	bridgeSvc := service.NewBridgeService(cfg, appLogger, openAlgoRepo, auditSvc, redisClient, notifier)

	// Schedule the audit retention purge
	purgeSchedule := cfg.Audit.PurgeSchedule
	if purgeSchedule == "" {
		purgeSchedule = "0 3 * * *"
	}
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(purgeSchedule, func() {
		if err := auditSvc.Purge(context.Background()); err != nil {
			appLogger.Error("Audit purge failed", logger.ErrorField(err))
		}
	}); err != nil {
		appLogger.Fatal("Invalid audit purge schedule", logger.ErrorField(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	gridHandler := delivery.NewGridHandler(bridgeSvc, appLogger)
	gridHandler.RegisterRoutes(apiV1)

	auditHandler := delivery.NewAuditHandler(auditSvc, appLogger)
	auditGroup := apiV1.Group("/audit")
	auditHandler.RegisterRoutes(auditGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "bridge-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-bridge.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing bridge-service CLI: %s\n", err)
		os.Exit(1)
	}
}

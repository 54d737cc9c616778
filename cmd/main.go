package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"givehubtel/internal/bootstrap"
	"givehubtel/internal/config"
	cronpkg "givehubtel/internal/cron"
	"givehubtel/internal/nonce"
	"givehubtel/internal/pkg/telegram"
	"givehubtel/internal/repository"
	"givehubtel/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.Hubtel.InsecureTLS {
		logger.Warn("TLS certificate verification for Hubtel is DISABLED (HUBTEL_INSECURE_TLS=true)")
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Nonce store (Redis with in-memory fallback) ---
	nonceStore, storeErr := nonce.NewStore(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB)
	if storeErr != nil {
		logger.Warn("Redis unavailable for nonce store, using in-memory fallback", zap.Error(storeErr))
	}
	issuer := nonce.NewIssuer(cfg.Nonce.Secret, cfg.Nonce.TTL, nonceStore)

	// --- Telegram reports (optional) ---
	var botAPI *telegram.BotAPI
	if cfg.Telegram.Token != "" {
		botAPI = telegram.NewBotAPI(cfg.Telegram.Token)
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Routes ---
	router.Setup(e, db, cfg, issuer, botAPI, logger)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(repository.NewDonationRepository(db), botAPI, cfg.Telegram.ReportChannel, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting donation gateway server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

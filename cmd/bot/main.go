package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/config"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/logger"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/scheduler"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/storage"
	itg "github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.WithField("admin_id", cfg.AdminTelegramID).Info("Configuration loaded")

	// Stores
	subsRepo := storage.NewFileSubscriberRepository(cfg.UsersFile)
	catalogRepo := storage.NewFileCatalogRepository(cfg.HoroscopesFile)
	mainLogger.Info("File stores initialized")

	// Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Log.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telebot handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("Could not create Telegram bot: %v", err)
	}

	tgClient := itg.NewTelebotAdapter(bot)

	// Services
	adminService := app.NewAdminService(subsRepo, cfg.AdminTelegramID)
	broadcastService := app.NewBroadcastService(subsRepo, tgClient, logger.Log.WithField("component", "broadcast"), cfg.SendRatePerSec)
	dispatchService := app.NewDispatchService(subsRepo, catalogRepo, tgClient, logger.Log.WithField("component", "dispatch"), cfg.SendRatePerSec)
	mainLogger.Info("Services initialized")

	// Daily dispatch scheduler
	dispatchScheduler := scheduler.NewDispatchScheduler(
		dispatchService,
		logger.Log.WithField("component", "scheduler"),
		cfg.CronSpecDaily,
	)
	dispatchScheduler.Start()

	// Handlers
	ctx := context.Background()
	itg.RegisterSubscriberHandlers(ctx, bot, subsRepo, catalogRepo, logger.Log.WithField("component", "telegram"))
	itg.RegisterAdminHandlers(ctx, bot, adminService, broadcastService, cfg.AdminTelegramID, logger.Log.WithField("component", "telegram"))
	mainLogger.Info("Handlers registered, bot is starting")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down")
	dispatchScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully")
}

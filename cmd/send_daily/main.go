// send_daily runs one dispatch pass and exits. It exists for installs that
// prefer an external scheduler (cron, systemd timer) over the long-running
// bot's built-in one; running both is harmless because delivery is
// idempotent per day.
package main

import (
	"context"
	"log"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/config"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/logger"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/storage"
	itg "github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	runLogger := logger.Log.WithField("component", "send_daily")

	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
	if err != nil {
		runLogger.Fatalf("Could not create Telegram bot: %v", err)
	}

	subsRepo := storage.NewFileSubscriberRepository(cfg.UsersFile)
	catalogRepo := storage.NewFileCatalogRepository(cfg.HoroscopesFile)
	dispatchService := app.NewDispatchService(
		subsRepo,
		catalogRepo,
		itg.NewTelebotAdapter(bot),
		logger.Log.WithField("component", "dispatch"),
		cfg.SendRatePerSec,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := dispatchService.Run(ctx, time.Now())
	if err != nil {
		runLogger.WithError(err).Fatal("Dispatch run failed")
	}
	runLogger.WithField("sent", report.Sent).Info("Dispatch run completed")
}

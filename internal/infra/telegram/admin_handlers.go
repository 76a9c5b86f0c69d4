package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

// RegisterAdminHandlers registers the operator-only commands: /stats,
// /broadcast and the free-text interception that carries the broadcast
// payload. Interception is scoped to the configured operator, so nobody
// else can trigger or consume a pending broadcast.
func RegisterAdminHandlers(
	ctx context.Context,
	b *telebot.Bot,
	adminService *app.AdminService,
	broadcastService *app.BroadcastService,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	b.Handle("/stats", func(c telebot.Context) error {
		senderID := c.Sender().ID
		handlerLogger := baseLogger.WithFields(logrus.Fields{"handler": "/stats", "sender_id": senderID})
		handlerLogger.Info("Command received")

		stats, err := adminService.Stats(ctx, senderID, time.Now())
		if err != nil {
			if err == app.ErrAdminNotAuthorized {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send("Эта команда недоступна.")
			}
			handlerLogger.WithError(err).Error("Failed to collect stats")
			return c.Send("Произошла ошибка при сборе статистики.")
		}

		var signLines strings.Builder
		for _, sign := range horoscope.Signs {
			if n := stats.BySign[sign]; n > 0 {
				signLines.WriteString(fmt.Sprintf("• %s: %d\n", signLabel(sign), n))
			}
		}
		if signLines.Len() == 0 {
			signLines.WriteString("Нет данных\n")
		}

		text := fmt.Sprintf(
			"📊 <b>Статистика бота</b>\n\n"+
				"👥 Всего пользователей: <b>%d</b>\n"+
				"🌗 Classic: <b>%d</b>\n"+
				"🔥 Uncensored: <b>%d</b>\n"+
				"📬 Получили гороскоп сегодня: <b>%d</b>\n\n"+
				"♈ Пользователи по знакам:\n%s",
			stats.Total,
			stats.ByStyle[horoscope.StyleClassic],
			stats.ByStyle[horoscope.StyleUncensored],
			stats.DeliveredToday,
			signLines.String(),
		)
		return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})

	b.Handle("/broadcast", func(c telebot.Context) error {
		senderID := c.Sender().ID
		handlerLogger := baseLogger.WithFields(logrus.Fields{"handler": "/broadcast", "sender_id": senderID})
		handlerLogger.Info("Command received")

		if senderID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Эта команда недоступна.")
		}

		broadcastService.Arm(senderID)
		return c.Send("Пришли текст рассылки следующим сообщением.")
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		senderID := c.Sender().ID
		if senderID != adminTelegramID || !broadcastService.Awaiting(senderID) {
			// plain text from anyone else is not a command, ignore it
			return nil
		}

		handlerLogger := baseLogger.WithFields(logrus.Fields{"handler": "broadcast_payload", "sender_id": senderID})
		payload := strings.TrimSpace(c.Text())
		if payload == "" {
			handlerLogger.Warn("Empty broadcast payload")
			broadcastService.Cancel(senderID)
			return c.Send("Пустое сообщение. Рассылка отменена.")
		}

		sent, total, err := broadcastService.Send(ctx, senderID, payload)
		if err != nil {
			handlerLogger.WithError(err).Error("Broadcast failed")
			return c.Send("Произошла ошибка при рассылке.")
		}
		handlerLogger.WithFields(logrus.Fields{"sent": sent, "total": total}).Info("Broadcast completed")
		return c.Send(fmt.Sprintf("Рассылка завершена: доставлено %d из %d.", sent, total))
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/help", "sender_id": senderID})
		logCtx.Info("Command received")

		if senderID == adminTelegramID {
			var helpText strings.Builder
			helpText.WriteString("Доступные команды Администратора:\n\n")
			helpText.WriteString("`/stats`\n - Статистика по подписчикам.\n\n")
			helpText.WriteString("`/broadcast`\n - Отправить сообщение всем подписчикам.\n\n")
			helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
			return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		return c.Send("Я присылаю сюр-гороскоп каждый день.\n\n" +
			"/start - выбрать знак и стиль заново.\n" +
			"/today - гороскоп на сегодня.\n" +
			"/settings - изменить знак или стиль.")
	})
}

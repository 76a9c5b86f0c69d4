package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
)

// RegisterSubscriberHandlers wires the onboarding, settings and on-demand
// horoscope flows for regular subscribers.
func RegisterSubscriberHandlers(
	ctx context.Context,
	b *telebot.Bot,
	subsRepo subscriber.Repository,
	catalogRepo horoscope.Repository,
	baseLogger *logrus.Entry,
) {
	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/start", "sender_id": senderID})
		logCtx.Info("Command received")

		if _, err := subsRepo.GetOrCreate(ctx, senderID); err != nil {
			logCtx.WithError(err).Error("Failed to create subscriber record")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		welcome := "🌀 Добро пожаловать в сюр-гороскопы.\n\n" +
			"Сейчас выберем твой знак, потом стиль — классический или без цензуры.\n" +
			"А дальше — каждый день свежий прогноз с лёгким налётом безумия."
		if err := c.Send(welcome); err != nil {
			return err
		}
		return c.Send("Сначала выбери свой знак зодиака:", signKeyboard())
	})

	b.Handle(&telebot.Btn{Unique: cbSetSign}, func(c telebot.Context) error {
		senderID := c.Sender().ID
		sign := horoscope.Sign(c.Data())
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "set_sign", "sender_id": senderID, "sign": sign})

		if !sign.Valid() {
			logCtx.Warn("Unknown sign in callback data")
			return c.Respond(&telebot.CallbackResponse{Text: "Неизвестный знак."})
		}

		if err := subsRepo.Update(ctx, senderID, subscriber.SignPatch(sign)); err != nil {
			logCtx.WithError(err).Error("Failed to save sign")
			return c.Respond(&telebot.CallbackResponse{Text: "Ошибка сохранения."})
		}
		logCtx.Info("Sign updated")

		if err := c.Send(
			fmt.Sprintf("Знак зодиака установлен: %s.\n\nТеперь выбери стиль гороскопа:", signLabel(sign)),
			styleKeyboard(),
		); err != nil {
			return err
		}
		return c.Respond()
	})

	b.Handle(&telebot.Btn{Unique: cbSetStyle}, func(c telebot.Context) error {
		senderID := c.Sender().ID
		style := horoscope.Style(c.Data())
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "set_style", "sender_id": senderID, "style": style})

		if !style.Valid() {
			logCtx.Warn("Unknown style in callback data")
			return c.Respond(&telebot.CallbackResponse{Text: "Неизвестный стиль."})
		}

		if err := subsRepo.Update(ctx, senderID, subscriber.StylePatch(style)); err != nil {
			logCtx.WithError(err).Error("Failed to save style")
			return c.Respond(&telebot.CallbackResponse{Text: "Ошибка сохранения."})
		}
		logCtx.Info("Style updated")

		if err := c.Send(
			fmt.Sprintf("Стиль гороскопа установлен: %s.\n\nТеперь можно получать ежедневный сюр-прогноз.", styleLabel(style)),
			mainMenu(),
		); err != nil {
			return err
		}
		return c.Respond()
	})

	showSettings := func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/settings", "sender_id": senderID})

		rec, err := subsRepo.GetOrCreate(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load subscriber record")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		text := fmt.Sprintf(
			"⚙ Текущие настройки:\n• Знак: %s\n• Стиль: %s\n\nЧто хочешь изменить?",
			signLabel(rec.Sign), styleLabel(rec.Style),
		)
		return c.Send(text, settingsKeyboard())
	}
	b.Handle("/settings", showSettings)
	b.Handle(&telebot.Btn{Text: btnSettingsText}, showSettings)

	b.Handle(&telebot.Btn{Unique: cbSettings}, func(c telebot.Context) error {
		switch c.Data() {
		case "sign":
			if err := c.Send("Выбери новый знак зодиака:", signKeyboard()); err != nil {
				return err
			}
		case "style":
			if err := c.Send("Выбери новый тип гороскопа:", styleKeyboard()); err != nil {
				return err
			}
		}
		return c.Respond()
	})

	sendToday := func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/today", "sender_id": senderID})

		rec, err := subsRepo.GetOrCreate(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load subscriber record")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		if !rec.Complete() {
			return c.Send("Сначала нужно выбрать знак и стиль.\nНажми /start, чтобы пройти настройку заново.")
		}

		catalog, err := catalogRepo.Load(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load catalog")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		text, ok := catalog.Resolve(horoscope.DateKey(time.Now()), rec.Sign, rec.Style)
		if !ok {
			return c.Send("Сегодняшний гороскоп ещё в процессе вызревания.\nЗагляни позже или на следующей неделе.")
		}

		reply := fmt.Sprintf(
			"🌀 Сюр-гороскоп на сегодня\n%s · %s\n\n%s",
			signLabel(rec.Sign), styleLabel(rec.Style), text,
		)
		return c.Send(reply)
	}
	b.Handle("/today", sendToday)
	b.Handle(&telebot.Btn{Text: btnTodayText}, sendToday)
}

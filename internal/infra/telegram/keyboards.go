package telegram

import (
	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

const (
	btnTodayText    = "📜 Гороскоп на сегодня"
	btnSettingsText = "⚙ Настройки"
)

// Callback uniques for inline keyboards.
const (
	cbSetSign  = "set_sign"
	cbSetStyle = "set_style"
	cbSettings = "settings"
)

var signLabels = map[horoscope.Sign]string{
	horoscope.SignAries:       "♈ Овен",
	horoscope.SignTaurus:      "♉ Телец",
	horoscope.SignGemini:      "♊ Близнецы",
	horoscope.SignCancer:      "♋ Рак",
	horoscope.SignLeo:         "♌ Лев",
	horoscope.SignVirgo:       "♍ Дева",
	horoscope.SignLibra:       "♎ Весы",
	horoscope.SignScorpio:     "♏ Скорпион",
	horoscope.SignSagittarius: "♐ Стрелец",
	horoscope.SignCapricorn:   "♑ Козерог",
	horoscope.SignAquarius:    "♒ Водолей",
	horoscope.SignPisces:      "♓ Рыбы",
}

func signLabel(s horoscope.Sign) string {
	if label, ok := signLabels[s]; ok {
		return label
	}
	return "не выбран"
}

func styleLabel(s horoscope.Style) string {
	switch s {
	case horoscope.StyleClassic:
		return "классический"
	case horoscope.StyleUncensored:
		return "без цензуры"
	default:
		return "не выбран"
	}
}

// mainMenu is the persistent reply keyboard every configured subscriber gets.
func mainMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(btnTodayText)),
		menu.Row(menu.Text(btnSettingsText)),
	)
	return menu
}

// signKeyboard lays out the twelve signs in rows of three.
func signKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	var row []telebot.Btn
	for i, sign := range horoscope.Signs {
		row = append(row, markup.Data(signLabels[sign], cbSetSign, string(sign)))
		if (i+1)%3 == 0 {
			rows = append(rows, markup.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, markup.Row(row...))
	}
	markup.Inline(rows...)
	return markup
}

func styleKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Классический", cbSetStyle, string(horoscope.StyleClassic)),
		markup.Data("Без цензуры", cbSetStyle, string(horoscope.StyleUncensored)),
	))
	return markup
}

func settingsKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("♈ Сменить знак зодиака", cbSettings, "sign")),
		markup.Row(markup.Data("🎭 Сменить тип гороскопа", cbSettings, "style")),
	)
	return markup
}

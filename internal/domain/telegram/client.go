package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// The dispatch and broadcast services depend on this instead of the bot
// library, and treat every send error the same way: skip and continue.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}

// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"birthday_notification_bot/internal/domain/notification"

	"gopkg.in/telebot.v3"
)

// botAPI is the part of *telebot.Bot the adapter needs.
type botAPI interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements notification.Sender using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot botAPI
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Mention links a recipient with a numeric user id, otherwise bolds the name.
func Mention(r notification.Recipient) string {
	name := html.EscapeString(r.Name)
	if _, err := strconv.ParseInt(r.MentionID, 10, 64); err == nil {
		return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, r.MentionID, name)
	}
	return "<b>" + name + "</b>"
}

// RenderHTML builds the HTML text of a message.
func RenderHTML(msg notification.Message) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(msg.Title), msg.Description(Mention))
}

// Send posts the message to the target's chat. Telegram has no @everyone, so
// a message that should not ping everyone is sent silently instead.
func (tba *TelebotAdapter) Send(ctx context.Context, target notification.Target, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrDelivery, err)
	}

	options := &telebot.SendOptions{
		ParseMode:           telebot.ModeHTML,
		DisableNotification: !msg.PingEveryone,
	}
	text := RenderHTML(msg)

	var what interface{} = text
	if msg.ImageURL != "" {
		what = &telebot.Animation{File: telebot.FromURL(msg.ImageURL), Caption: text}
	}

	if _, err := tba.bot.Send(&telebot.Chat{ID: target.ChatID}, what, options); err != nil {
		return fmt.Errorf("%w: telegram chat %d: %v", notification.ErrDelivery, target.ChatID, err)
	}
	return nil
}

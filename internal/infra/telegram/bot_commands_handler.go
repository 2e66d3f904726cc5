// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"birthday_notification_bot/internal/domain/birthday"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands registers /start, /help and /birthdays. The handlers
// only read immutable person data and compute occurrences themselves; they
// never touch the scheduler's roster.
func RegisterBotCommands(
	b *telebot.Bot,
	people []birthday.Person,
	now func() time.Time,
	baseLogger *logrus.Entry, // For contextual logging
) {
	people = append([]birthday.Person(nil), people...)

	b.Handle("/start", func(c telebot.Context) error {
		baseLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID).Info("Processing /start command")
		return c.Send("Hi! I announce birthdays in the groups I'm configured for. Use /birthdays to see who's next.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		baseLogger.WithField("command", "/help").WithField("sender_id", c.Sender().ID).Info("Processing /help command")
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("/birthdays - list upcoming birthdays\n")
		helpText.WriteString("/help - show this message")
		return c.Send(helpText.String())
	})

	b.Handle("/birthdays", func(c telebot.Context) error {
		baseLogger.WithField("command", "/birthdays").WithField("sender_id", c.Sender().ID).Info("Processing /birthdays command")
		return c.Send(FormatUpcoming(people, now()), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})
}

// FormatUpcoming lists each person with their next birthday, soonest first.
// People whose date cannot be resolved are listed last.
func FormatUpcoming(people []birthday.Person, now time.Time) string {
	if len(people) == 0 {
		return "No birthdays configured."
	}

	type row struct {
		name string
		next time.Time
		ok   bool
	}
	rows := make([]row, 0, len(people))
	for _, p := range people {
		next, ok := p.Date.NextOccurrence(now)
		rows = append(rows, row{name: p.Name, next: next, ok: ok})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		if !rows[i].next.Equal(rows[j].next) {
			return rows[i].next.Before(rows[j].next)
		}
		return rows[i].name < rows[j].name
	})

	var sb strings.Builder
	sb.WriteString("<b>Upcoming birthdays</b>\n")
	for _, r := range rows {
		if !r.ok {
			fmt.Fprintf(&sb, "\n%s: unknown", html.EscapeString(r.name))
			continue
		}
		days := int(r.next.Sub(now).Hours() / 24)
		fmt.Fprintf(&sb, "\n%s: %s (in %d days)", html.EscapeString(r.name), r.next.Format("2 January 2006 MST"), days)
	}
	return sb.String()
}

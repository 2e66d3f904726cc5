// internal/app/roster_builder.go
package app

import (
	"fmt"
	"time"

	"birthday_notification_bot/internal/domain/birthday"
	"birthday_notification_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// BuildRoster turns every configured person into a roster entry holding their
// next occurrence after now. A bad entry is logged and skipped; it never
// aborts the build.
func BuildRoster(doc *config.Document, now time.Time, logger *logrus.Entry) *birthday.Roster {
	roster := birthday.NewRoster()
	for _, name := range doc.PersonNames() {
		entry, err := NewRosterEntry(name, doc.People[name], now)
		if err != nil {
			logger.WithField("person", name).WithError(err).Warn("Skipping person")
			continue
		}
		roster.Add(entry)
	}
	logger.WithFields(logrus.Fields{
		"configured": len(doc.People),
		"watched":    roster.Len(),
	}).Info("Roster built")
	return roster
}

// NewRosterEntry validates one person's configuration and computes their
// initial next occurrence.
func NewRosterEntry(name string, pc config.PersonConfig, now time.Time) (*birthday.Entry, error) {
	date, err := birthday.NewRecurringDate(pc.Date[0], pc.Date[1], pc.TZ)
	if err != nil {
		return nil, fmt.Errorf("failed to create birth date: %w", err)
	}

	person := birthday.Person{Name: name, Date: date}
	if pc.Notify != nil {
		person.Notify = &birthday.NotifyConfig{
			MentionID:    pc.Notify.ID,
			Groups:       append([]string(nil), pc.Notify.Groups...),
			PingEveryone: pc.Notify.PingEveryone,
		}
	}

	next, ok := date.NextOccurrence(now)
	if !ok {
		return nil, fmt.Errorf("%w: no occurrence of %s after %s", birthday.ErrUnresolvableDate, date, now.Format(time.RFC3339))
	}
	return &birthday.Entry{Person: person, Next: next}, nil
}

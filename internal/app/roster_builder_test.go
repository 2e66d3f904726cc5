package app_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"birthday_notification_bot/internal/app"
	"birthday_notification_bot/internal/domain/birthday"
	"birthday_notification_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoster_SkipsInvalidTimezone(t *testing.T) {
	log, hook := test.NewNullLogger()
	doc := &config.Document{People: map[string]config.PersonConfig{
		"Alice": {Date: [2]int{14, 3}, TZ: "Europe/London"},
		"Bob":   {Date: [2]int{1, 12}, TZ: "Not/AZone"},
		"Carol": {Date: [2]int{25, 8}, TZ: "Asia/Tokyo"},
	}}
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	roster := app.BuildRoster(doc, now, logrus.NewEntry(log))

	assert.Equal(t, 2, roster.Len())
	_, ok := roster.Lookup("Bob")
	assert.False(t, ok)
	_, ok = roster.Lookup("Alice")
	assert.True(t, ok)
	_, ok = roster.Lookup("Carol")
	assert.True(t, ok)

	var warnings []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings = append(warnings, e)
		}
	}
	require.Len(t, warnings, 1)
	assert.Equal(t, "Bob", warnings[0].Data["person"])
	assert.ErrorIs(t, warnings[0].Data[logrus.ErrorKey].(error), birthday.ErrInvalidTimezone)
}

func TestBuildRoster_SkipsImpossibleDate(t *testing.T) {
	log, hook := test.NewNullLogger()
	doc := &config.Document{People: map[string]config.PersonConfig{
		"Dave": {Date: [2]int{30, 2}, TZ: "UTC"},
	}}

	roster := app.BuildRoster(doc, time.Now(), logrus.NewEntry(log))

	assert.Equal(t, 0, roster.Len())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[0].Level)
	assert.ErrorIs(t, hook.AllEntries()[0].Data[logrus.ErrorKey].(error), birthday.ErrUnresolvableDate)
}

func TestNewRosterEntry_CopiesRouting(t *testing.T) {
	yes := true
	pc := config.PersonConfig{
		Date: [2]int{14, 3},
		TZ:   "UTC",
		Notify: &config.NotifyConfig{
			ID:           "42",
			Groups:       []string{"friends", "work"},
			PingEveryone: &yes,
		},
	}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	entry, err := app.NewRosterEntry("Alice", pc, now)
	require.NoError(t, err)
	assert.Equal(t, "Alice", entry.Person.Name)
	assert.Equal(t, "42", entry.Person.MentionID())
	assert.Equal(t, []string{"friends", "work"}, entry.Person.Groups())
	assert.True(t, entry.Person.ForcesBroadcast())
	assert.True(t, entry.Next.Equal(time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)))
}

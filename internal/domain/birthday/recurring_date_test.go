package birthday_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"birthday_notification_bot/internal/domain/birthday"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, day, month int, tz string) birthday.RecurringDate {
	t.Helper()
	d, err := birthday.NewRecurringDate(day, month, tz)
	require.NoError(t, err)
	return d
}

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestNewRecurringDate_InvalidTimezone(t *testing.T) {
	_, err := birthday.NewRecurringDate(1, 1, "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, birthday.ErrInvalidTimezone)

	_, err = birthday.NewRecurringDate(1, 1, "")
	assert.ErrorIs(t, err, birthday.ErrInvalidTimezone)
}

func TestNewRecurringDate_OutOfRange(t *testing.T) {
	_, err := birthday.NewRecurringDate(0, 1, "UTC")
	assert.ErrorIs(t, err, birthday.ErrInvalidDate)

	_, err = birthday.NewRecurringDate(1, 13, "UTC")
	assert.ErrorIs(t, err, birthday.ErrInvalidDate)

	_, err = birthday.NewRecurringDate(32, 1, "UTC")
	assert.ErrorIs(t, err, birthday.ErrInvalidDate)
}

func TestNewRecurringDate_DayNeverInMonth(t *testing.T) {
	_, err := birthday.NewRecurringDate(30, 2, "UTC")
	assert.ErrorIs(t, err, birthday.ErrUnresolvableDate)

	_, err = birthday.NewRecurringDate(31, 4, "UTC")
	assert.ErrorIs(t, err, birthday.ErrUnresolvableDate)

	_, err = birthday.NewRecurringDate(29, 2, "UTC")
	assert.NoError(t, err)
}

func TestNextOccurrence_SameYear(t *testing.T) {
	d := mustDate(t, 14, 3, "Europe/London")
	now := utc(2024, time.January, 10, 12)

	next, ok := d.NextOccurrence(now)
	require.True(t, ok)
	assert.Equal(t, 2024, next.Year())
	assert.True(t, next.Equal(utc(2024, time.March, 14, 0)))
}

func TestNextOccurrence_YearRollover(t *testing.T) {
	d := mustDate(t, 14, 3, "Europe/London")
	now := utc(2024, time.June, 1, 0)

	next, ok := d.NextOccurrence(now)
	require.True(t, ok)
	assert.Equal(t, 2025, next.Year())
	assert.True(t, next.Equal(utc(2025, time.March, 14, 0)))
}

func TestNextOccurrence_ExactlyNowIsNotRolledOver(t *testing.T) {
	d := mustDate(t, 1, 7, "UTC")
	now := utc(2024, time.July, 1, 0)

	next, ok := d.NextOccurrence(now)
	require.True(t, ok)
	assert.True(t, next.Equal(now))
}

func TestNextOccurrence_LocalMidnightInOffsetZone(t *testing.T) {
	d := mustDate(t, 20, 7, "Asia/Tokyo")
	now := utc(2024, time.July, 1, 0)

	next, ok := d.NextOccurrence(now)
	require.True(t, ok)
	assert.True(t, next.Equal(utc(2024, time.July, 19, 15)))
	assert.Equal(t, "Asia/Tokyo", next.Location().String())
}

func TestNextOccurrence_UsesYearOfTheDateTimezone(t *testing.T) {
	// 31 Dec 23:00 UTC is already 1 Jan 13:00 in Kiritimati.
	d := mustDate(t, 1, 1, "Pacific/Kiritimati")
	now := utc(2024, time.December, 31, 23)

	next, ok := d.NextOccurrence(now)
	require.True(t, ok)
	assert.False(t, next.Before(now))
	assert.Equal(t, 2026, next.In(d.Location()).Year())
}

func TestNextOccurrence_Idempotent(t *testing.T) {
	d := mustDate(t, 5, 11, "America/New_York")
	first, ok := d.NextOccurrence(utc(2024, time.December, 1, 0))
	require.True(t, ok)

	again, ok := d.NextOccurrence(first.Add(-time.Second))
	require.True(t, ok)
	assert.True(t, again.Equal(first))
}

func TestNextOccurrence_NeverBeforeNow(t *testing.T) {
	zones := []string{"UTC", "America/Havana", "Australia/Lord_Howe", "Asia/Kolkata", "Pacific/Apia"}
	start := utc(2023, time.January, 1, 0)
	for _, tz := range zones {
		d := mustDate(t, 15, 6, tz)
		for now := start; now.Before(start.AddDate(2, 0, 0)); now = now.Add(97 * time.Hour) {
			next, ok := d.NextOccurrence(now)
			require.True(t, ok, "%s at %s", tz, now)
			assert.False(t, next.Before(now), "%s at %s", tz, now)
			assert.True(t, next.Sub(now) <= 367*24*time.Hour, "%s at %s", tz, now)
		}
	}
}

// Cuba falls back at 01:00 daylight time, so local midnight on the first
// Sunday of November happens twice.
func TestOccurrenceIn_AmbiguousMidnightPicksLater(t *testing.T) {
	d := mustDate(t, 3, 11, "America/Havana")

	got, ok := d.OccurrenceIn(2024)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2024, time.November, 3, 5)), "got %s", got.UTC())

	next, ok := d.NextOccurrence(utc(2024, time.June, 1, 0))
	require.True(t, ok)
	assert.True(t, next.Equal(utc(2024, time.November, 3, 5)))
}

// Cuba springs forward at midnight on the second Sunday of March.
func TestOccurrenceIn_SkippedMidnightIsUnresolvable(t *testing.T) {
	d := mustDate(t, 10, 3, "America/Havana")

	_, ok := d.OccurrenceIn(2024)
	assert.False(t, ok)

	next, ok := d.NextOccurrence(utc(2024, time.January, 1, 0))
	require.True(t, ok)
	assert.Equal(t, 2025, next.Year())
	assert.True(t, next.Equal(utc(2025, time.March, 10, 4)), "got %s", next.UTC())
}

func TestNextOccurrence_LeapDay(t *testing.T) {
	d := mustDate(t, 29, 2, "UTC")

	next, ok := d.NextOccurrence(utc(2023, time.March, 1, 0))
	require.True(t, ok)
	assert.True(t, next.Equal(utc(2024, time.February, 29, 0)))

	_, ok = d.NextOccurrence(utc(2025, time.March, 1, 0))
	assert.False(t, ok)
}

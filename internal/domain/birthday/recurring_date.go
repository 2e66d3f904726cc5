package birthday

import (
	"fmt"
	"time"
)

// probeOffsets are the distances from a local wall-clock time at which the
// zone offset is sampled. Every offset that could apply to that wall-clock
// time is in effect at one of these instants.
var probeOffsets = []time.Duration{-48 * time.Hour, 0, 48 * time.Hour}

// RecurringDate is an annual date-of-month anchored to local midnight in a
// timezone. The zero value is not usable; build one with NewRecurringDate.
type RecurringDate struct {
	day   int
	month time.Month
	loc   *time.Location
}

// NewRecurringDate validates day, month and the IANA timezone name.
//
// A day that can never exist in the month (30 February, 31 April) yields
// ErrUnresolvableDate. 29 February is accepted and only resolves in leap years.
func NewRecurringDate(day, month int, tz string) (RecurringDate, error) {
	if tz == "" {
		return RecurringDate{}, fmt.Errorf("%w: empty name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return RecurringDate{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return RecurringDate{}, fmt.Errorf("%w: day %d month %d", ErrInvalidDate, day, month)
	}
	if day > maxDaysIn(time.Month(month)) {
		return RecurringDate{}, fmt.Errorf("%w: %s has no day %d", ErrUnresolvableDate, time.Month(month), day)
	}
	return RecurringDate{day: day, month: time.Month(month), loc: loc}, nil
}

func (d RecurringDate) Day() int                 { return d.day }
func (d RecurringDate) Month() time.Month        { return d.month }
func (d RecurringDate) Location() *time.Location { return d.loc }

func (d RecurringDate) String() string {
	return fmt.Sprintf("%02d %s (%s)", d.day, d.month, d.loc)
}

// NextOccurrence returns the first local midnight of the date that is not
// before now. The year of now in the date's own timezone is tried first, then
// the following year. ok is false when neither year resolves.
func (d RecurringDate) NextOccurrence(now time.Time) (next time.Time, ok bool) {
	if d.loc == nil {
		return time.Time{}, false
	}
	year := now.In(d.loc).Year()
	if next, ok = d.OccurrenceIn(year); ok && !next.Before(now) {
		return next, true
	}
	return d.OccurrenceIn(year + 1)
}

// OccurrenceIn resolves local midnight of the date in the given year.
//
// When a fall-back transition makes midnight happen twice the later instant
// wins. When a spring-forward transition skips midnight, or the day does not
// exist that year (29 February), ok is false.
func (d RecurringDate) OccurrenceIn(year int) (occurrence time.Time, ok bool) {
	if d.loc == nil || d.day > daysIn(d.month, year) {
		return time.Time{}, false
	}
	wall := time.Date(year, d.month, d.day, 0, 0, 0, 0, time.UTC)

	for _, probe := range probeOffsets {
		_, offset := wall.Add(probe).In(d.loc).Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second)
		if !isWallMidnight(candidate.In(d.loc), year, d.month, d.day) {
			continue
		}
		if !ok || candidate.After(occurrence) {
			occurrence, ok = candidate, true
		}
	}
	if !ok {
		return time.Time{}, false
	}
	return occurrence.In(d.loc), true
}

func isWallMidnight(t time.Time, year int, month time.Month, day int) bool {
	y, m, dd := t.Date()
	h, mm, s := t.Clock()
	return y == year && m == month && dd == day && h == 0 && mm == 0 && s == 0
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func maxDaysIn(month time.Month) int {
	if month == time.February {
		return 29
	}
	return daysIn(month, 2001)
}

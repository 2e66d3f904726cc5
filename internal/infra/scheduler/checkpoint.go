package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// DefaultMargin is added to every hour boundary to absorb wake-up jitter.
const DefaultMargin = 10 * time.Second

// ErrCheckpoint is returned when the time until the next check cannot be
// computed. The loop then evaluates again without sleeping.
var ErrCheckpoint = errors.New("could not compute next checkpoint")

// NextCheckpoint returns the start of the hour after now, in loc. After 23:xx
// that is midnight of the following day.
func NextCheckpoint(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	next := local.Hour() + 1
	if next == 24 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m, d, next, 0, 0, 0, loc)
}

// UntilCheckpoint is the sleep needed to reach the next checkpoint plus margin.
func UntilCheckpoint(now time.Time, loc *time.Location, margin time.Duration) (time.Duration, error) {
	if loc == nil {
		return 0, fmt.Errorf("%w: no reference timezone", ErrCheckpoint)
	}
	checkpoint := NextCheckpoint(now, loc)
	d := checkpoint.Sub(now)
	if d <= 0 {
		return 0, fmt.Errorf("%w: checkpoint %s is not after %s", ErrCheckpoint,
			checkpoint.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return d + margin, nil
}

package scheduler

import (
	"context"
	"time"

	"birthday_notification_bot/internal/app" // For NotificationService interface
	"birthday_notification_bot/internal/domain/birthday"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BirthdayScheduler owns the roster and alternates between waiting for the
// next hour boundary (armed) and scanning the roster (evaluating). The first
// evaluation happens immediately.
type BirthdayScheduler struct {
	roster   *birthday.Roster
	notifier app.NotificationService
	logger   *logrus.Entry
	location *time.Location // reference timezone for hour boundaries
	margin   time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	cancel context.CancelFunc
	done   chan struct{}
}

func NewBirthdayScheduler(
	roster *birthday.Roster,
	notifier app.NotificationService,
	logger *logrus.Entry,
	location *time.Location, // e.g. time.UTC
	margin time.Duration, // e.g. DefaultMargin
) *BirthdayScheduler {
	return &BirthdayScheduler{
		roster:   roster,
		notifier: notifier,
		logger:   logger,
		location: location,
		margin:   margin,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start runs the loop in its own goroutine until Stop is called.
func (s *BirthdayScheduler) Start(ctx context.Context) {
	s.logger.WithField("people", s.roster.Len()).Info("Starting birthday scheduler...")
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Run(ctx)
	}()
}

// Stop cancels the loop and waits for the current phase to finish.
func (s *BirthdayScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("Stopping birthday scheduler...")
	s.cancel()
	<-s.done
	s.logger.Info("Birthday scheduler gracefully stopped.")
}

// Run loops until ctx is done.
func (s *BirthdayScheduler) Run(ctx context.Context) {
	first := true
	for {
		if !first {
			if err := s.waitForCheckpoint(ctx); err != nil {
				return
			}
		}
		first = false
		if ctx.Err() != nil {
			return
		}
		s.Evaluate(ctx)
	}
}

// waitForCheckpoint sleeps until the next hour boundary. It only returns an
// error when ctx is done; a failed computation is logged and skips the sleep.
func (s *BirthdayScheduler) waitForCheckpoint(ctx context.Context) error {
	d, err := UntilCheckpoint(s.now(), s.location, s.margin)
	if err != nil {
		s.logger.WithError(err).Error("Could not compute time until next hour. Checking again now.")
		return nil
	}
	s.logger.WithField("sleep", d.String()).Debug("Sleeping until next hour")
	return s.sleep(ctx, d)
}

// Evaluate collects everyone whose occurrence has passed and not been
// announced, moves every passed occurrence forward (retrying ones that failed
// before) and hands the collected people to the notifier. It blocks until the
// notifier returns and reports the due batch.
func (s *BirthdayScheduler) Evaluate(ctx context.Context) []birthday.Person {
	now := s.now()
	cycleID := uuid.NewString()
	log := s.logger.WithField("cycle_id", cycleID)

	var due []birthday.Person
	for _, entry := range s.roster.Entries() {
		if !entry.HasPassed(now) {
			continue
		}
		entryLog := log.WithField("person", entry.Person.Name)
		if entry.IsDue(now) {
			due = append(due, entry.Person)
			entry.MarkAnnounced()
			entryLog.Info("Birthday is due")
		}

		// Stale entries land here every cycle until they resolve.
		if err := entry.Advance(now); err != nil {
			entryLog.WithError(err).Error("Failed to update next birthday")
			continue
		}
		entryLog.WithField("next", entry.Next.Format(time.RFC3339)).Debug("Next birthday updated")
	}

	if len(due) == 0 {
		log.Debug("No birthdays due")
		return nil
	}

	log.WithField("due", len(due)).Info("Sending birthday notifications")
	if err := s.notifier.Notify(ctx, cycleID, due); err != nil {
		log.WithError(err).Warn("Some birthday notifications failed")
	}
	return due
}

// internal/app/notification_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"birthday_notification_bot/internal/domain/birthday"
	"birthday_notification_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

const (
	assetURLBase   = "https://morgverd.com/assets/images/birthdays"
	fallbackPrefix = "Happy birthday to you!"
)

// DefaultPrefixes are the celebratory openers one of which starts every message.
var DefaultPrefixes = []string{
	"Can you believe its been a year already?",
	"The grow up so fast.",
	"As is tradition around here,",
}

// NotificationService announces a batch of due birthdays.
type NotificationService interface {
	// Notify groups people by target group and sends one message per group.
	// It blocks until every group has been attempted. The returned error joins
	// the per-group failures, all of which have already been logged.
	Notify(ctx context.Context, cycleID string, people []birthday.Person) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	targets    map[string]notification.Target
	sender     notification.Sender
	deliveries notification.Repository
	logger     *logrus.Entry
	prefixes   []string
	pick       func(n int) int
	timeout    time.Duration
}

func NewNotificationServiceImpl(
	targets map[string]notification.Target,
	sender notification.Sender,
	deliveries notification.Repository,
	logger *logrus.Entry,
	timeout time.Duration, // per group, 0 disables
) *NotificationServiceImpl {
	if deliveries == nil {
		deliveries = notification.NopRepository{}
	}
	return &NotificationServiceImpl{
		targets:    targets,
		sender:     sender,
		deliveries: deliveries,
		logger:     logger,
		prefixes:   DefaultPrefixes,
		pick:       rand.Intn,
		timeout:    timeout,
	}
}

// GroupBatch is the set of due people bound for one target group.
type GroupBatch struct {
	Target  notification.Target
	Members []birthday.Person
}

// PingEveryone is true when any member's override asks for it, otherwise the
// group's default applies.
func (g GroupBatch) PingEveryone() bool {
	for _, p := range g.Members {
		if p.ForcesBroadcast() {
			return true
		}
	}
	return g.Target.DefaultPingEveryone
}

// GroupByTarget splits people by the target groups they belong to. Groups
// come back sorted by id; unknown group ids are logged and ignored.
func (s *NotificationServiceImpl) GroupByTarget(people []birthday.Person) []GroupBatch {
	byGroup := make(map[string]*GroupBatch)
	for _, p := range people {
		for _, groupID := range p.Groups() {
			target, ok := s.targets[groupID]
			if !ok {
				s.logger.WithFields(logrus.Fields{"person": p.Name, "group": groupID}).Warn("Person has invalid target group")
				continue
			}
			batch, ok := byGroup[groupID]
			if !ok {
				batch = &GroupBatch{Target: target}
				byGroup[groupID] = batch
			}
			batch.Members = append(batch.Members, p)
		}
	}

	batches := make([]GroupBatch, 0, len(byGroup))
	for _, b := range byGroup {
		batches = append(batches, *b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Target.GroupID < batches[j].Target.GroupID })
	return batches
}

// BuildMessage renders the announcement for one group.
func (s *NotificationServiceImpl) BuildMessage(batch GroupBatch) notification.Message {
	recipients := make([]notification.Recipient, 0, len(batch.Members))
	for _, p := range batch.Members {
		recipients = append(recipients, notification.Recipient{Name: p.Name, MentionID: p.MentionID()})
	}
	return notification.Message{
		Username:     "The Birthday Bot",
		AvatarURL:    assetURLBase + "/birthday_cake.png",
		Title:        "Happy Birthday!",
		Prefix:       pickPrefix(s.prefixes, s.pick),
		Recipients:   recipients,
		ImageURL:     assetURLBase + "/happy_birthday.gif",
		Footer:       "Sent by the birthdays manager.",
		PingEveryone: batch.PingEveryone(),
	}
}

func pickPrefix(prefixes []string, pick func(n int) int) string {
	if len(prefixes) == 0 {
		return fallbackPrefix
	}
	i := pick(len(prefixes))
	if i < 0 || i >= len(prefixes) || prefixes[i] == "" {
		return fallbackPrefix
	}
	return prefixes[i]
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, cycleID string, people []birthday.Person) error {
	batches := s.GroupByTarget(people)
	if len(batches) == 0 {
		s.logger.WithField("cycle_id", cycleID).Info("No target groups for due birthdays. Nothing to send.")
		return nil
	}

	// Messages are built before any goroutine starts so nothing reads Person
	// data once Notify returns.
	msgs := make([]notification.Message, len(batches))
	for i, b := range batches {
		msgs[i] = s.BuildMessage(b)
	}

	errs := make([]error, len(batches))
	var wg sync.WaitGroup
	for i := range batches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.deliver(ctx, cycleID, batches[i].Target, msgs[i])
		}(i)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *NotificationServiceImpl) deliver(ctx context.Context, cycleID string, target notification.Target, msg notification.Message) error {
	log := s.logger.WithFields(logrus.Fields{
		"cycle_id":      cycleID,
		"group":         target.GroupID,
		"kind":          target.Kind,
		"recipients":    len(msg.Recipients),
		"ping_everyone": msg.PingEveryone,
	})

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	record := &notification.Delivery{
		CycleID:      cycleID,
		GroupID:      target.GroupID,
		Kind:         target.Kind,
		Recipients:   msg.RecipientNames(),
		PingEveryone: msg.PingEveryone,
		Status:       notification.DeliverySent,
	}

	sendErr := s.sender.Send(sendCtx, target, msg)
	if sendErr != nil {
		log.WithError(sendErr).Error("Failed to send birthday message")
		record.Status = notification.DeliveryFailed
		record.Error = sendErr.Error()
		sendErr = fmt.Errorf("group %s: %w", target.GroupID, sendErr)
	} else {
		log.Info("Birthday message sent")
	}

	if err := s.deliveries.RecordDelivery(ctx, record); err != nil {
		log.WithError(err).Warn("Failed to record delivery")
	}
	return sendErr
}

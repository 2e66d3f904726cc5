// internal/domain/notification/sender.go
package notification

import (
	"context"
	"errors"
	"fmt"
)

// ErrDelivery marks a failed send. It is never fatal; callers log it per target.
var ErrDelivery = errors.New("delivery failed")

// ErrUnsupportedKind is returned when no sender is configured for a target's kind.
var ErrUnsupportedKind = errors.New("no sender for target kind")

// Sender delivers a message to a single target.
type Sender interface {
	Send(ctx context.Context, target Target, msg Message) error
}

// Senders routes each target to the sender registered for its kind.
type Senders map[Kind]Sender

func (s Senders) Send(ctx context.Context, target Target, msg Message) error {
	sender, ok := s[target.Kind]
	if !ok || sender == nil {
		return fmt.Errorf("%w: %q (group %s)", ErrUnsupportedKind, target.Kind, target.GroupID)
	}
	return sender.Send(ctx, target, msg)
}

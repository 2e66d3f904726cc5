// internal/domain/notification/delivery.go
package notification

import (
	"context"
	"time"
)

// DeliveryStatus is the outcome of one send to one target group.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// Delivery is an audit record of a message sent to a target group.
// Corresponds to the 'birthday_deliveries' table.
type Delivery struct {
	ID           int64
	CycleID      string // evaluation cycle that produced the message
	GroupID      string
	Kind         Kind
	Recipients   []string
	PingEveryone bool
	Status       DeliveryStatus
	Error        string
	CreatedAt    time.Time
}

// Repository stores delivery records.
type Repository interface {
	RecordDelivery(ctx context.Context, d *Delivery) error
}

// NopRepository discards every record. Used when no database is configured.
type NopRepository struct{}

func (NopRepository) RecordDelivery(context.Context, *Delivery) error { return nil }

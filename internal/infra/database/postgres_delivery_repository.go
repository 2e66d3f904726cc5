// internal/infra/database/postgres_delivery_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"birthday_notification_bot/internal/domain/notification"

	"github.com/lib/pq" // For pq.Array
)

type PostgresDeliveryRepository struct {
	db *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: db}
}

func (r *PostgresDeliveryRepository) RecordDelivery(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO birthday_deliveries (cycle_id, group_id, kind, recipients, ping_everyone, status, error)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING id, created_at`

	errText := sql.NullString{String: d.Error, Valid: d.Error != ""}
	err := r.db.QueryRowContext(ctx, query,
		d.CycleID, d.GroupID, string(d.Kind), pq.Array(d.Recipients), d.PingEveryone, string(d.Status), errText,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording delivery for group %s: %w", d.GroupID, err)
	}
	return nil
}

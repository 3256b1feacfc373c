package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (occurred_at, actor, action, registration_id, device, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var registrationID sql.NullInt64
	if event.RegistrationID != 0 {
		registrationID = sql.NullInt64{Int64: event.RegistrationID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp,
		event.Actor,
		event.Action,
		registrationID,
		event.Device,
		event.Reason,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRegistration(ctx context.Context, registrationID int64) ([]Event, error) {
	query := `
		SELECT occurred_at, actor, action, COALESCE(registration_id, 0), device, reason
		FROM audit_events
		WHERE registration_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.Timestamp, &event.Actor, &event.Action, &event.RegistrationID, &event.Device, &event.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

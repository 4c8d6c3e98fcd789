// Package sqlstore persists audit events in the audit_events table of the
// application database.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	id "protocolo/pkg/domain"
	audit "protocolo/pkg/platform/audit"
)

// Store implements audit.Store over any sqlx database the service runs on.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type row struct {
	ID        string    `db:"id"`
	Category  string    `db:"category"`
	Timestamp time.Time `db:"occurred_at"`
	ActorID   string    `db:"actor_id"`
	Actor     string    `db:"actor"`
	Subject   string    `db:"subject"`
	Action    string    `db:"action"`
	Reason    string    `db:"reason"`
	RequestID string    `db:"request_id"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	actorID := ""
	if !event.ActorID.IsNil() {
		actorID = event.ActorID.String()
	}
	query := s.db.Rebind(`
		INSERT INTO audit_events (id, category, occurred_at, actor_id, actor, subject, action, reason, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		string(event.Category),
		event.Timestamp,
		actorID,
		event.Actor,
		event.Subject,
		event.Action,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns the events about one subject, oldest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	var rows []row
	query := s.db.Rebind(`
		SELECT id, category, occurred_at, actor_id, actor, subject, action, reason, request_id
		FROM audit_events
		WHERE subject = ?
		ORDER BY occurred_at ASC
	`)
	if err := s.db.SelectContext(ctx, &rows, query, subject); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	out := make([]audit.Event, 0, len(rows))
	for _, r := range rows {
		e := audit.Event{
			Category:  audit.EventCategory(r.Category),
			Timestamp: r.Timestamp,
			Actor:     r.Actor,
			Subject:   r.Subject,
			Action:    r.Action,
			Reason:    r.Reason,
			RequestID: r.RequestID,
		}
		if parsed, err := uuid.Parse(r.ActorID); err == nil {
			e.ActorID = id.UserID(parsed)
		}
		out = append(out, e)
	}
	return out, nil
}

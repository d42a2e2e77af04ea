package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/taksitli/crm-reporting-api/infrastructure/database/postgres"
	"github.com/taksitli/crm-reporting-api/internal/domain"
)

const (
	eventsTable   = "lead_events e"
	eventsColumns = "e.id, e.occurred_at, e.actor, e.lead_id, e.action, e.old_value, e.new_value, e.note, e.metadata"
	// Ties on occurred_at break by log id, i.e. insertion order.
	eventsOrder = "e.occurred_at ASC, e.id ASC"
)

// EventRepository is the event store collaborator: instant-range and
// per-lead-history queries over the append-only activity log.
type EventRepository interface {
	ListByRange(ctx context.Context, start, end time.Time) ([]domain.ActivityEvent, error)
	ListByLeadIDs(ctx context.Context, leadIDs []string) ([]domain.ActivityEvent, error)
}

type eventRepository struct {
	conn *postgres.Connection
}

func NewEventRepository(conn *postgres.Connection) EventRepository {
	return &eventRepository{conn: conn}
}

func (r *eventRepository) ListByRange(ctx context.Context, start, end time.Time) ([]domain.ActivityEvent, error) {
	query, args, err := squirrel.
		Select(eventsColumns).
		From(eventsTable).
		Where(squirrel.GtOrEq{"e.occurred_at": start}).
		Where(squirrel.Lt{"e.occurred_at": end}).
		OrderBy(eventsOrder).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building events range query: %w", err)
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) ListByLeadIDs(ctx context.Context, leadIDs []string) ([]domain.ActivityEvent, error) {
	if len(leadIDs) == 0 {
		return nil, nil
	}

	query, args, err := squirrel.
		Select(eventsColumns).
		From(eventsTable).
		Where(squirrel.Eq{"e.lead_id": leadIDs}).
		OrderBy(eventsOrder).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building events by lead query: %w", err)
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]domain.ActivityEvent, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.ActivityEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}

	return events, nil
}

func scanEvent(rows *sql.Rows) (domain.ActivityEvent, error) {
	var (
		event                            domain.ActivityEvent
		leadID, oldValue, newValue, note sql.NullString
		metadataJSON                     []byte
	)

	err := rows.Scan(
		&event.ID,
		&event.OccurredAt,
		&event.Actor,
		&leadID,
		&event.Action,
		&oldValue,
		&newValue,
		&note,
		&metadataJSON,
	)
	if err != nil {
		return domain.ActivityEvent{}, err
	}

	event.LeadID = nullableString(leadID)
	event.OldValue = nullableString(oldValue)
	event.NewValue = nullableString(newValue)
	event.Note = nullableString(note)

	if len(metadataJSON) > 0 {
		metadata := make(map[string]any)
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return domain.ActivityEvent{}, fmt.Errorf("decoding event metadata JSON: %w", err)
		}
		event.Metadata = metadata
	}

	return event, nil
}

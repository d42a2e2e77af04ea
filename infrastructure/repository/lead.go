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
	leadsTable   = "leads l"
	leadsColumns = `l.id, l.full_name, l.phone, l.created_at, l.updated_at, l.status,
		l.approval_state, l.approved_at, l.delivered_at, l.sold_at, l.operator,
		l.product, l.requested_amount, l.approved_limit, l.sold_items, l.city,
		l.profession, l.birth_date, l.income, l.channel, l.cancel_reason`
)

// LeadRepository is the entity store collaborator: read-only snapshot queries
// over the current lead records.
type LeadRepository interface {
	ListAll(ctx context.Context) ([]*domain.Lead, error)
	ListByUpdatedRange(ctx context.Context, start, end time.Time) ([]*domain.Lead, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]*domain.Lead, error)
}

type leadRepository struct {
	conn *postgres.Connection
}

func NewLeadRepository(conn *postgres.Connection) LeadRepository {
	return &leadRepository{conn: conn}
}

func (r *leadRepository) ListAll(ctx context.Context) ([]*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadsColumns).
		From(leadsTable).
		OrderBy("l.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building leads query: %w", err)
	}

	return r.queryLeads(ctx, query, args...)
}

func (r *leadRepository) ListByUpdatedRange(ctx context.Context, start, end time.Time) ([]*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadsColumns).
		From(leadsTable).
		Where(squirrel.Or{
			squirrel.And{squirrel.GtOrEq{"l.updated_at": start}, squirrel.Lt{"l.updated_at": end}},
			squirrel.And{squirrel.GtOrEq{"l.created_at": start}, squirrel.Lt{"l.created_at": end}},
		}).
		OrderBy("l.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building leads range query: %w", err)
	}

	return r.queryLeads(ctx, query, args...)
}

func (r *leadRepository) ListByStatuses(ctx context.Context, statuses []string) ([]*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadsColumns).
		From(leadsTable).
		Where(squirrel.Eq{"l.status": statuses}).
		OrderBy("l.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building leads status query: %w", err)
	}

	return r.queryLeads(ctx, query, args...)
}

func (r *leadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]*domain.Lead, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lead rows: %w", err)
	}

	return leads, nil
}

func scanLead(rows *sql.Rows) (*domain.Lead, error) {
	lead := &domain.Lead{}

	var (
		phone, approvalState, operator, product    sql.NullString
		requestedAmount, approvedLimit, city       sql.NullString
		profession, birthDate, income, channel     sql.NullString
		cancelReason                               sql.NullString
		updatedAt, approvedAt, deliveredAt, soldAt sql.NullTime
		soldItemsJSON                              []byte
	)

	err := rows.Scan(
		&lead.ID,
		&lead.FullName,
		&phone,
		&lead.CreatedAt,
		&updatedAt,
		&lead.Status,
		&approvalState,
		&approvedAt,
		&deliveredAt,
		&soldAt,
		&operator,
		&product,
		&requestedAmount,
		&approvedLimit,
		&soldItemsJSON,
		&city,
		&profession,
		&birthDate,
		&income,
		&channel,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = nullableString(phone)
	lead.UpdatedAt = nullableTime(updatedAt)
	lead.ApprovalState = nullableString(approvalState)
	lead.ApprovedAt = nullableTime(approvedAt)
	lead.DeliveredAt = nullableTime(deliveredAt)
	lead.SoldAt = nullableTime(soldAt)
	lead.Operator = nullableString(operator)
	lead.Product = nullableString(product)
	lead.RequestedAmount = nullableString(requestedAmount)
	lead.ApprovedLimit = nullableString(approvedLimit)
	lead.City = nullableString(city)
	lead.Profession = nullableString(profession)
	lead.BirthDate = nullableString(birthDate)
	lead.Income = nullableString(income)
	lead.Channel = nullableString(channel)
	lead.CancelReason = nullableString(cancelReason)

	if len(soldItemsJSON) > 0 {
		items := make([]domain.SoldItem, 0)
		if err := json.Unmarshal(soldItemsJSON, &items); err != nil {
			return nil, fmt.Errorf("decoding sold_items JSON: %w", err)
		}
		lead.SoldItems = items
	}

	return lead, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

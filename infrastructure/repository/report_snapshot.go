package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/taksitli/crm-reporting-api/infrastructure/database/postgres"
	"github.com/taksitli/crm-reporting-api/internal/domain"
)

const (
	reportSnapshotsTable = "report_snapshots rs"
)

// ReportSnapshotEntry is one cached daily report, written by the snapshot
// scheduler. The engine never reads these during live report requests.
type ReportSnapshotEntry struct {
	ID         int64
	ReportDate string // civil day key, YYYY-MM-DD
	Report     *domain.Report
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ReportSnapshotRepository interface {
	GetByDate(ctx context.Context, reportDate string) (*ReportSnapshotEntry, error)
	SaveOrUpdate(ctx context.Context, reportDate string, report *domain.Report) error
	DeleteBefore(ctx context.Context, cutoffDate string) (int64, error)
}

type reportSnapshotRepository struct {
	conn *postgres.Connection
}

func NewReportSnapshotRepository(conn *postgres.Connection) ReportSnapshotRepository {
	return &reportSnapshotRepository{conn: conn}
}

func (r *reportSnapshotRepository) GetByDate(ctx context.Context, reportDate string) (*ReportSnapshotEntry, error) {
	query, args, err := squirrel.
		Select("rs.id, rs.report_date, rs.payload, rs.created_at, rs.updated_at").
		From(reportSnapshotsTable).
		Where(squirrel.Eq{"rs.report_date": reportDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building snapshot query: %w", err)
	}

	row := r.conn.QueryRowContext(ctx, query, args...)

	entry := &ReportSnapshotEntry{}
	var payload []byte

	err = row.Scan(&entry.ID, &entry.ReportDate, &payload, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	if len(payload) > 0 {
		report := &domain.Report{}
		if err := json.Unmarshal(payload, report); err != nil {
			return nil, fmt.Errorf("decoding snapshot payload JSON: %w", err)
		}
		entry.Report = report
	}

	return entry, nil
}

func (r *reportSnapshotRepository) SaveOrUpdate(ctx context.Context, reportDate string, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report payload: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("report_snapshots").
		Columns("report_date", "payload").
		Values(reportDate, payload).
		Suffix(`
			ON CONFLICT (report_date) DO UPDATE SET
				payload = EXCLUDED.payload,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building snapshot upsert: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("executing snapshot upsert: %w", err)
	}

	return nil
}

// DeleteBefore removes snapshots for civil days strictly before cutoffDate
// (YYYY-MM-DD). The caller derives the cutoff from its clock; the repository
// does not read wall time.
func (r *reportSnapshotRepository) DeleteBefore(ctx context.Context, cutoffDate string) (int64, error) {
	query, args, err := squirrel.
		Delete("report_snapshots").
		Where(squirrel.Lt{"report_date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building snapshot delete: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("executing snapshot delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}

	return rowsAffected, nil
}

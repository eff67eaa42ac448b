package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// Repository defines the persistence operations for citizen reports
type Repository interface {
	// GetByID retrieves a report by its id
	GetByID(ctx context.Context, id string) (*Report, error)

	// ListAll retrieves every report, newest first
	ListAll(ctx context.Context) ([]*Report, error)

	// ListByCategory retrieves reports of one category, newest first
	ListByCategory(ctx context.Context, category Category) ([]*Report, error)

	// GetByStatus retrieves a snapshot of reports in the given sync status
	GetByStatus(ctx context.Context, status SyncStatus) ([]*Report, error)

	// Upsert inserts the report or replaces the existing row with the same id
	Upsert(ctx context.Context, report *Report) error

	// UpdateSyncStatus updates only the sync status column of one report
	UpdateSyncStatus(ctx context.Context, id string, status SyncStatus) error

	// DeleteByID removes a report from local storage; absent ids are a no-op
	DeleteByID(ctx context.Context, id string) error
}

// SQLRepository implements Repository using SQLite
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *loggy.Logger
}

// NewSQLRepository creates a new SQL repository for reports
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  logger,
	}
}

const reportColumns = "id, title, description, category, latitude, longitude, photo_url, timestamp, sync_status"

// GetByID retrieves a report by its id
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*Report, error) {
	q := r.builder.
		Select(reportColumns).
		From("reports").
		Where(sq.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	report, err := r.scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("executing select query: %w", err)
	}

	return report, nil
}

// ListAll retrieves every report, newest first
func (r *SQLRepository) ListAll(ctx context.Context) ([]*Report, error) {
	q := r.builder.
		Select(reportColumns).
		From("reports").
		OrderBy("timestamp DESC")

	return r.queryReports(ctx, q)
}

// ListByCategory retrieves reports of one category, newest first
func (r *SQLRepository) ListByCategory(ctx context.Context, category Category) ([]*Report, error) {
	q := r.builder.
		Select(reportColumns).
		From("reports").
		Where(sq.Eq{"category": string(category)}).
		OrderBy("timestamp DESC")

	return r.queryReports(ctx, q)
}

// GetByStatus retrieves a snapshot of reports in the given sync status.
// The sync engine iterates this snapshot; rows inserted afterwards belong
// to the next run.
func (r *SQLRepository) GetByStatus(ctx context.Context, status SyncStatus) ([]*Report, error) {
	q := r.builder.
		Select(reportColumns).
		From("reports").
		Where(sq.Eq{"sync_status": string(status)})

	return r.queryReports(ctx, q)
}

// Upsert inserts the report or replaces the existing row with the same id
func (r *SQLRepository) Upsert(ctx context.Context, report *Report) error {
	var photoURL interface{}
	if report.PhotoURL != "" {
		photoURL = report.PhotoURL
	}

	q := r.builder.
		Insert("reports").
		Options("OR REPLACE").
		Columns("id", "title", "description", "category", "latitude", "longitude", "photo_url", "timestamp", "sync_status").
		Values(
			report.ID,
			report.Title,
			report.Description,
			string(report.Category),
			report.Latitude,
			report.Longitude,
			photoURL,
			report.Timestamp,
			string(report.SyncStatus),
		)

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing upsert query: %w", err)
	}

	return nil
}

// UpdateSyncStatus updates only the sync status column of one report
func (r *SQLRepository) UpdateSyncStatus(ctx context.Context, id string, status SyncStatus) error {
	q := r.builder.
		Update("reports").
		Set("sync_status", string(status)).
		Where(sq.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building update status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing update status query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReportNotFound
	}

	return nil
}

// DeleteByID removes a report from local storage. Deleting an absent
// report is a no-op, so repeated deletes of the same id all succeed.
func (r *SQLRepository) DeleteByID(ctx context.Context, id string) error {
	q := r.builder.
		Delete("reports").
		Where(sq.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing delete query: %w", err)
	}

	return nil
}

// queryReports runs a select builder and scans all resulting rows
func (r *SQLRepository) queryReports(ctx context.Context, q sq.SelectBuilder) ([]*Report, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing select query: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := r.scanReportFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report rows: %w", err)
	}

	return reports, nil
}

// scanReport scans a report from a single row
func (r *SQLRepository) scanReport(row *sql.Row) (*Report, error) {
	var (
		report      Report
		rawCategory string
		rawStatus   string
		photoURL    sql.NullString
	)

	err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&rawCategory,
		&report.Latitude,
		&report.Longitude,
		&photoURL,
		&report.Timestamp,
		&rawStatus,
	)
	if err != nil {
		return nil, err
	}

	return r.finishScan(&report, rawCategory, rawStatus, photoURL)
}

// scanReportFromRows scans a report from a rows cursor
func (r *SQLRepository) scanReportFromRows(rows *sql.Rows) (*Report, error) {
	var (
		report      Report
		rawCategory string
		rawStatus   string
		photoURL    sql.NullString
	)

	err := rows.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&rawCategory,
		&report.Latitude,
		&report.Longitude,
		&photoURL,
		&report.Timestamp,
		&rawStatus,
	)
	if err != nil {
		return nil, err
	}

	return r.finishScan(&report, rawCategory, rawStatus, photoURL)
}

// finishScan converts raw column values into their domain types
func (r *SQLRepository) finishScan(report *Report, rawCategory, rawStatus string, photoURL sql.NullString) (*Report, error) {
	category, err := ParseCategory(rawCategory)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", report.ID, err)
	}
	report.Category = category

	status, err := ParseSyncStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", report.ID, err)
	}
	report.SyncStatus = status

	if photoURL.Valid {
		report.PhotoURL = photoURL.String
	}

	return report, nil
}

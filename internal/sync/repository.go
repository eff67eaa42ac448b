package sync

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/ulid"
)

// Repository defines operations for managing sync logs in the database
type Repository interface {
	// CreateSyncLog creates a new sync log
	CreateSyncLog(ctx context.Context, log *SyncLog) error

	// GetSyncLogs retrieves sync logs with optional filtering, newest first
	GetSyncLogs(ctx context.Context, reportID string, limit, offset int) ([]*SyncLog, error)

	// GetLatestSyncLog retrieves the latest sync log for a report
	GetLatestSyncLog(ctx context.Context, reportID string) (*SyncLog, error)
}

// SQLRepository implements the Repository interface using a SQL database
type SQLRepository struct {
	db     *sql.DB
	logger *loggy.Logger
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

const syncLogColumns = "id, report_id, trigger_type, success, error_type, error_message, started_at, completed_at"

// CreateSyncLog creates a new sync log
func (r *SQLRepository) CreateSyncLog(ctx context.Context, log *SyncLog) error {
	if log.ID == "" {
		log.ID = ulid.SyncLogID()
	}

	q := squirrel.Insert("sync_logs").
		Columns("id", "report_id", "trigger_type", "success", "error_type", "error_message", "started_at", "completed_at").
		Values(log.ID, log.ReportID, log.Trigger, log.Success, log.ErrorType, log.ErrorMessage, log.StartedAt, log.CompletedAt)

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building create sync log query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing create sync log query: %w", err)
	}

	return nil
}

// GetSyncLogs retrieves sync logs with optional filtering, newest first
func (r *SQLRepository) GetSyncLogs(ctx context.Context, reportID string, limit, offset int) ([]*SyncLog, error) {
	q := squirrel.Select(syncLogColumns).
		From("sync_logs").
		OrderBy("started_at DESC")

	if reportID != "" {
		q = q.Where(squirrel.Eq{"report_id": reportID})
	}

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get sync logs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing get sync logs query: %w", err)
	}
	defer rows.Close()

	var logs []*SyncLog
	for rows.Next() {
		log, err := scanSyncLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync log row: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync log rows: %w", err)
	}

	return logs, nil
}

// GetLatestSyncLog retrieves the latest sync log for a report
func (r *SQLRepository) GetLatestSyncLog(ctx context.Context, reportID string) (*SyncLog, error) {
	q := squirrel.Select(syncLogColumns).
		From("sync_logs").
		Where(squirrel.Eq{"report_id": reportID}).
		OrderBy("started_at DESC").
		Limit(1)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get latest sync log query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing get latest sync log query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating sync log rows: %w", err)
		}
		return nil, nil // No sync log found
	}

	log, err := scanSyncLog(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning sync log row: %w", err)
	}

	return log, nil
}

// scanSyncLog scans the current row into a SyncLog
func scanSyncLog(rows *sql.Rows) (*SyncLog, error) {
	var log SyncLog
	var errorType, errorMessage sql.NullString

	err := rows.Scan(
		&log.ID,
		&log.ReportID,
		&log.Trigger,
		&log.Success,
		&errorType,
		&errorMessage,
		&log.StartedAt,
		&log.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	log.ErrorType = ErrorType(errorType.String)
	log.ErrorMessage = errorMessage.String

	return &log, nil
}

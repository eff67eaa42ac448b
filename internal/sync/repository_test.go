package sync

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

func setupRepoTest(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSQLRepository(db, loggy.NewNoopLogger()), mock
}

func TestCreateSyncLog(t *testing.T) {
	repo, mock := setupRepoTest(t)

	log := NewSyncLog(TriggerManual, "rep_01HQZX3F5T")
	log.MarkFailed(ErrorTypeServer, "internal server error")

	mock.ExpectExec("INSERT INTO sync_logs").
		WithArgs(
			sqlmock.AnyArg(), // generated id
			log.ReportID,
			log.Trigger,
			log.Success,
			log.ErrorType,
			log.ErrorMessage,
			log.StartedAt,
			log.CompletedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateSyncLog(context.Background(), log)
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSyncLogs(t *testing.T) {
	repo, mock := setupRepoTest(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "report_id", "trigger_type", "success", "error_type", "error_message", "started_at", "completed_at",
	}).
		AddRow("syn_2", "rep_1", "scheduled", true, nil, nil, now, now).
		AddRow("syn_1", "rep_1", "manual", false, "network", "connection refused", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM sync_logs").
		WithArgs("rep_1").
		WillReturnRows(rows)

	logs, err := repo.GetSyncLogs(context.Background(), "rep_1", 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "syn_2", logs[0].ID)
	assert.True(t, logs[0].Success)
	assert.Empty(t, logs[0].ErrorType)

	assert.Equal(t, TriggerManual, logs[1].Trigger)
	assert.Equal(t, ErrorTypeNetwork, logs[1].ErrorType)
	assert.Equal(t, "connection refused", logs[1].ErrorMessage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestSyncLog(t *testing.T) {
	repo, mock := setupRepoTest(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "report_id", "trigger_type", "success", "error_type", "error_message", "started_at", "completed_at",
	}).AddRow("syn_9", "rep_1", "manual", true, nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM sync_logs").
		WithArgs("rep_1").
		WillReturnRows(rows)

	log, err := repo.GetLatestSyncLog(context.Background(), "rep_1")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "syn_9", log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestSyncLogNotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows([]string{
		"id", "report_id", "trigger_type", "success", "error_type", "error_message", "started_at", "completed_at",
	})

	mock.ExpectQuery("SELECT (.+) FROM sync_logs").
		WithArgs("rep_missing").
		WillReturnRows(rows)

	log, err := repo.GetLatestSyncLog(context.Background(), "rep_missing")
	require.NoError(t, err)
	assert.Nil(t, log)
	assert.NoError(t, mock.ExpectationsWereMet())
}

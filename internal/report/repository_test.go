package report

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

var reportColumnList = []string{
	"id", "title", "description", "category", "latitude", "longitude", "photo_url", "timestamp", "sync_status",
}

func setupRepoTest(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSQLRepository(db, loggy.NewNoopLogger()), mock
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows(reportColumnList).
		AddRow("rep_1", "Pothole", "Deep hole", "ROAD", 48.85, 2.35, "https://cdn/reports/rep_1.jpg", int64(1700000000000), "PENDING")

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("rep_1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "rep_1")
	require.NoError(t, err)

	assert.Equal(t, "rep_1", got.ID)
	assert.Equal(t, CategoryRoad, got.Category)
	assert.Equal(t, SyncStatusPending, got.SyncStatus)
	assert.Equal(t, "https://cdn/reports/rep_1.jpg", got.PhotoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("rep_missing").
		WillReturnRows(sqlmock.NewRows(reportColumnList))

	_, err := repo.GetByID(context.Background(), "rep_missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDRejectsUnknownCategory(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows(reportColumnList).
		AddRow("rep_1", "Pothole", "Deep hole", "SIDEWALK", 48.85, 2.35, nil, int64(1700000000000), "PENDING")

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("rep_1").
		WillReturnRows(rows)

	_, err := repo.GetByID(context.Background(), "rep_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIDEWALK")
}

func TestRepositoryListAll(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows(reportColumnList).
		AddRow("rep_2", "Broken light", "Lamp out", "LIGHTING", 48.86, 2.36, nil, int64(1700000002000), "SYNCED").
		AddRow("rep_1", "Pothole", "Deep hole", "ROAD", 48.85, 2.35, nil, int64(1700000001000), "PENDING")

	mock.ExpectQuery("SELECT (.+) FROM reports ORDER BY timestamp DESC").
		WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rep_2", got[0].ID)
	assert.Empty(t, got[0].PhotoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByStatus(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows(reportColumnList).
		AddRow("rep_1", "Pothole", "Deep hole", "ROAD", 48.85, 2.35, nil, int64(1700000001000), "PENDING")

	mock.ExpectQuery("SELECT (.+) FROM reports WHERE sync_status").
		WithArgs("PENDING").
		WillReturnRows(rows)

	got, err := repo.GetByStatus(context.Background(), SyncStatusPending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SyncStatusPending, got[0].SyncStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpsert(t *testing.T) {
	repo, mock := setupRepoTest(t)

	r := NewReport("Pothole", "Deep hole", CategoryRoad, 48.85, 2.35)

	mock.ExpectExec("INSERT OR REPLACE INTO reports").
		WithArgs(
			r.ID,
			r.Title,
			r.Description,
			"ROAD",
			r.Latitude,
			r.Longitude,
			nil, // no photo
			r.Timestamp,
			"PENDING",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateSyncStatus(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE reports SET sync_status").
		WithArgs("SYNCED", "rep_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSyncStatus(context.Background(), "rep_1", SyncStatusSynced))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateSyncStatusNotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE reports SET sync_status").
		WithArgs("FAILED", "rep_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSyncStatus(context.Background(), "rep_missing", SyncStatusFailed)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRepositoryDeleteByID(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("DELETE FROM reports").
		WithArgs("rep_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByID(context.Background(), "rep_1"))

	// A second delete of the same id affects no rows and still succeeds
	mock.ExpectExec("DELETE FROM reports").
		WithArgs("rep_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByID(context.Background(), "rep_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

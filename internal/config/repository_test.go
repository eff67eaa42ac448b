package config

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

func setupSettingsRepoTest(t *testing.T) (SettingsRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSQLSettingsRepository(db, loggy.NewNoopLogger()), mock
}

func expectSetSetting(mock sqlmock.Sqlmock, key, value string) {
	mock.ExpectExec(`INSERT INTO settings (.+) ON CONFLICT\(key\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), key, value, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestSetSettingUpserts(t *testing.T) {
	repo, mock := setupSettingsRepoTest(t)

	expectSetSetting(mock, KeyRemoteDeviceName, "field-tablet")

	require.NoError(t, repo.SetSetting(context.Background(), KeyRemoteDeviceName, "field-tablet"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetSettingRelinkAfterUnlink(t *testing.T) {
	repo, mock := setupSettingsRepoTest(t)
	ctx := context.Background()

	obfuscated, err := obfuscateToken("tok-1")
	require.NoError(t, err)

	// link: token stored obfuscated
	expectSetSetting(mock, KeyRemoteToken, obfuscated)
	require.NoError(t, repo.SetSetting(ctx, KeyRemoteToken, "tok-1"))

	// unlink: the row keeps existing with an empty value
	expectSetSetting(mock, KeyRemoteToken, "")
	require.NoError(t, repo.SetSetting(ctx, KeyRemoteToken, ""))

	// relink: must update the existing row instead of inserting a
	// duplicate key and tripping the UNIQUE constraint
	reObfuscated, err := obfuscateToken("tok-2")
	require.NoError(t, err)
	expectSetSetting(mock, KeyRemoteToken, reObfuscated)
	require.NoError(t, repo.SetSetting(ctx, KeyRemoteToken, "tok-2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenObfuscationRoundTrip(t *testing.T) {
	obfuscated, err := obfuscateToken("secret-token")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-token", obfuscated)
	assert.Contains(t, obfuscated, "OBFS:")

	plain, err := deobfuscateToken(obfuscated)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", plain)

	// Values without the marker pass through untouched
	passthrough, err := deobfuscateToken("plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", passthrough)
}

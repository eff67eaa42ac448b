package config

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/ulid"
)

// Settings keys persisted across runs. The remote token is obfuscated
// before hitting the database.
const (
	KeyLocale           = "app.locale"
	KeyRemoteURL        = "remote.server_url"
	KeyRemoteToken      = "remote.server_token"
	KeyRemoteDeviceName = "remote.device_name"
	KeyRemoteEnabled    = "remote.enabled"
)

// Settings represents a persistent setting in the database
type Settings struct {
	ID        string
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettingsRepository defines operations for managing settings in the database
type SettingsRepository interface {
	// GetSetting retrieves a setting by key
	GetSetting(ctx context.Context, key string) (string, error)

	// GetSettings retrieves multiple settings by prefix
	GetSettings(ctx context.Context, prefix string) (map[string]string, error)

	// SetSetting sets a setting value
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting deletes a setting
	DeleteSetting(ctx context.Context, key string) error
}

// SQLSettingsRepository implements SettingsRepository using a SQL database
type SQLSettingsRepository struct {
	db     *sql.DB
	logger *loggy.Logger
}

// NewSQLSettingsRepository creates a new SQL settings repository
func NewSQLSettingsRepository(db *sql.DB, logger *loggy.Logger) SettingsRepository {
	return &SQLSettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetSetting retrieves a setting by key
func (r *SQLSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	q := squirrel.Select("value").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	query, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("building get setting query: %w", err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil // Return empty string if not found
		}
		return "", fmt.Errorf("executing get setting query: %w", err)
	}

	if key == KeyRemoteToken && value != "" {
		return deobfuscateToken(value)
	}

	return value, nil
}

// GetSettings retrieves multiple settings by prefix
func (r *SQLSettingsRepository) GetSettings(ctx context.Context, prefix string) (map[string]string, error) {
	q := squirrel.Select("key", "value").
		From("settings").
		Where(squirrel.Like{"key": prefix + "%"})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get settings query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing get settings query: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting row: %w", err)
		}

		if key == KeyRemoteToken && value != "" {
			value, err = deobfuscateToken(value)
			if err != nil {
				r.logger.Warn("Failed to deobfuscate token", "error", err)
				// Continue with other settings even if one fails
				continue
			}
		}

		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating setting rows: %w", err)
	}

	return settings, nil
}

// SetSetting sets a setting value. The write is a single conflict-aware
// upsert keyed on settings.key, so storing an empty value (unlinking) and
// writing the key again later both work.
func (r *SQLSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	storeValue := value
	if key == KeyRemoteToken && value != "" {
		var err error
		storeValue, err = obfuscateToken(value)
		if err != nil {
			return fmt.Errorf("obfuscating token: %w", err)
		}
	}

	now := time.Now().UTC()

	q := squirrel.Insert("settings").
		Columns("id", "key", "value", "created_at", "updated_at").
		Values(ulid.SettingID(), key, storeValue, now, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at")

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building set setting query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing set setting query: %w", err)
	}

	return nil
}

// DeleteSetting deletes a setting
func (r *SQLSettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	q := squirrel.Delete("settings").
		Where(squirrel.Eq{"key": key})

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building delete setting query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing delete setting query: %w", err)
	}

	return nil
}

// LoadPersistedSettings overlays database-persisted settings onto a Config.
// Environment values act as defaults; anything the user saved wins.
func LoadPersistedSettings(ctx context.Context, cfg *Config, repo SettingsRepository) error {
	remote, err := repo.GetSettings(ctx, "remote.")
	if err != nil {
		return fmt.Errorf("loading remote settings: %w", err)
	}

	if url, ok := remote[KeyRemoteURL]; ok && url != "" {
		cfg.Remote.URL = url
	}

	if token, ok := remote[KeyRemoteToken]; ok && token != "" {
		cfg.Remote.Token = token
	}

	if deviceName, ok := remote[KeyRemoteDeviceName]; ok && deviceName != "" {
		cfg.Remote.DeviceName = deviceName
	}

	if enabled, ok := remote[KeyRemoteEnabled]; ok && enabled != "" {
		cfg.Remote.Enabled = enabled == "true"
	}

	locale, err := repo.GetSetting(ctx, KeyLocale)
	if err != nil {
		return fmt.Errorf("loading locale setting: %w", err)
	}
	if locale != "" {
		cfg.App.Locale = locale
	}

	return nil
}

// SavePersistedSettings saves the persistable parts of a Config to the database
func SavePersistedSettings(ctx context.Context, cfg *Config, repo SettingsRepository) error {
	if err := repo.SetSetting(ctx, KeyRemoteURL, cfg.Remote.URL); err != nil {
		return fmt.Errorf("saving server URL: %w", err)
	}

	if err := repo.SetSetting(ctx, KeyRemoteToken, cfg.Remote.Token); err != nil {
		return fmt.Errorf("saving server token: %w", err)
	}

	if err := repo.SetSetting(ctx, KeyRemoteDeviceName, cfg.Remote.DeviceName); err != nil {
		return fmt.Errorf("saving device name: %w", err)
	}

	enabledStr := "false"
	if cfg.Remote.Enabled {
		enabledStr = "true"
	}
	if err := repo.SetSetting(ctx, KeyRemoteEnabled, enabledStr); err != nil {
		return fmt.Errorf("saving enabled status: %w", err)
	}

	if err := repo.SetSetting(ctx, KeyLocale, cfg.App.Locale); err != nil {
		return fmt.Errorf("saving locale: %w", err)
	}

	return nil
}

// Simple token obfuscation functions
// These provide basic obfuscation, not true encryption

// obfuscateToken performs basic token obfuscation
func obfuscateToken(token string) (string, error) {
	// Reverse the token
	runes := []rune(token)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	reversed := string(runes)

	// Base64 encode and add a marker
	encoded := base64.StdEncoding.EncodeToString([]byte(reversed))
	return "OBFS:" + encoded, nil
}

// deobfuscateToken reverses the obfuscation
func deobfuscateToken(obfuscated string) (string, error) {
	// Check if it's obfuscated
	if !strings.HasPrefix(obfuscated, "OBFS:") {
		return obfuscated, nil // Not obfuscated
	}

	encoded := strings.TrimPrefix(obfuscated, "OBFS:")

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding obfuscated token: %w", err)
	}

	runes := []rune(string(decoded))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes), nil
}

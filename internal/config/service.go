package config

import (
	"context"
	"database/sql"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// SettingsService provides operations for managing application settings
type SettingsService struct {
	repo   SettingsRepository
	config *Config
	logger *loggy.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *sql.DB, config *Config, logger *loggy.Logger) *SettingsService {
	repo := NewSQLSettingsRepository(db, logger)

	return &SettingsService{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// GetSetting retrieves a setting by key
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// GetSettings retrieves multiple settings by prefix
func (s *SettingsService) GetSettings(ctx context.Context, prefix string) (map[string]string, error) {
	return s.repo.GetSettings(ctx, prefix)
}

// SetSetting sets a setting value
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// DeleteSetting deletes a setting
func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	return s.repo.DeleteSetting(ctx, key)
}

// GetRepository returns the underlying repository
func (s *SettingsService) GetRepository() SettingsRepository {
	return s.repo
}

// LoadPersistedSettings loads persisted settings from the database into the Config
func (s *SettingsService) LoadPersistedSettings(ctx context.Context) error {
	return LoadPersistedSettings(ctx, s.config, s.repo)
}

// SavePersistedSettings saves persistable settings from the Config to the database
func (s *SettingsService) SavePersistedSettings(ctx context.Context) error {
	return SavePersistedSettings(ctx, s.config, s.repo)
}

// SetToken sets the remote token with proper obfuscation
func (s *SettingsService) SetToken(ctx context.Context, token string) error {
	s.config.Remote.Token = token
	return s.repo.SetSetting(ctx, KeyRemoteToken, token)
}

// SetServerURL sets the remote server URL
func (s *SettingsService) SetServerURL(ctx context.Context, url string) error {
	s.config.Remote.URL = url
	return s.repo.SetSetting(ctx, KeyRemoteURL, url)
}

// SetLocale sets the application locale
func (s *SettingsService) SetLocale(ctx context.Context, locale string) error {
	s.config.App.Locale = locale
	return s.repo.SetSetting(ctx, KeyLocale, locale)
}

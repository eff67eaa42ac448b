package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: "default",
			expected:     "default",
		},
		{
			name:         "env set, return env value",
			envValue:     "custom",
			defaultValue: "default",
			expected:     "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_STRING_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvString(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 100,
			expected:     100,
		},
		{
			name:         "env set to valid int, return int value",
			envValue:     "200",
			defaultValue: 100,
			expected:     200,
		},
		{
			name:         "env set to invalid int, return default",
			envValue:     "not_an_int",
			defaultValue: 100,
			expected:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_INT_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvInt(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: true,
			expected:     true,
		},
		{
			name:         "env set to true, return true",
			envValue:     "true",
			defaultValue: false,
			expected:     true,
		},
		{
			name:         "env set to false, return false",
			envValue:     "false",
			defaultValue: true,
			expected:     false,
		},
		{
			name:         "env set to invalid bool, return default",
			envValue:     "not_a_bool",
			defaultValue: true,
			expected:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvBool(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 1 * time.Second,
			expected:     1 * time.Second,
		},
		{
			name:         "env set to valid duration, return duration value",
			envValue:     "5s",
			defaultValue: 1 * time.Second,
			expected:     5 * time.Second,
		},
		{
			name:         "env set to invalid duration, return default",
			envValue:     "not_a_duration",
			defaultValue: 1 * time.Second,
			expected:     1 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvDuration(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNew(t *testing.T) {
	// New should return a bare-bones config with everything at zero values
	cfg := New()

	assert.Empty(t, cfg.Database.Path, "Database path should be empty")
	assert.Empty(t, cfg.App.Locale)
	assert.Empty(t, cfg.Remote.URL)
	assert.False(t, cfg.Remote.Enabled)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Zero(t, cfg.Sync.Interval)
	assert.Empty(t, cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	// Reset any environment variables that might affect the test
	vars := []string{
		"CITYREPORT_LOCALE", "CITYREPORT_REMOTE_ENABLED", "CITYREPORT_REMOTE_URL",
		"CITYREPORT_REMOTE_TIMEOUT", "CITYREPORT_STORAGE_BUCKET",
		"CITYREPORT_SYNC_INTERVAL", "CITYREPORT_LOG_LEVEL",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	configDir := t.TempDir()
	cfg, err := LoadFromEnv(configDir, filepath.Join(configDir, ".env"))
	assert.NoError(t, err)

	// Verify default values are set correctly
	assert.Equal(t, "fr", cfg.App.Locale)
	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, "http://localhost:3000", cfg.Remote.URL)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 3, cfg.Remote.MaxRetries)
	assert.Equal(t, "report-photos", cfg.Storage.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(configDir, "cityreport.db"), cfg.Database.Path)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	os.Setenv("CITYREPORT_LOCALE", "en")
	os.Setenv("CITYREPORT_SYNC_INTERVAL", "5m")
	os.Setenv("CITYREPORT_REMOTE_ENABLED", "true")
	os.Setenv("CITYREPORT_REMOTE_URL", "https://reports.example.org")
	defer func() {
		os.Unsetenv("CITYREPORT_LOCALE")
		os.Unsetenv("CITYREPORT_SYNC_INTERVAL")
		os.Unsetenv("CITYREPORT_REMOTE_ENABLED")
		os.Unsetenv("CITYREPORT_REMOTE_URL")
	}()

	configDir := t.TempDir()
	cfg, err := LoadFromEnv(configDir, filepath.Join(configDir, ".env"))
	assert.NoError(t, err)

	assert.Equal(t, "en", cfg.App.Locale)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "https://reports.example.org", cfg.Remote.URL)
}

func TestSetGet(t *testing.T) {
	// Clear the global config first
	Set(nil)

	// Get should return error when not initialized
	_, err := Get()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	// Set a config
	testCfg := New()
	testCfg.App.Locale = "en"
	Set(testCfg)

	// Get should work now
	cfg, err := Get()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Verify the changed value
	assert.Equal(t, "en", cfg.App.Locale)
}

func TestValidate(t *testing.T) {
	validConfig := func() *Config {
		cfg := New()
		cfg.App.Locale = "fr"
		cfg.Sync.Interval = 15 * time.Minute
		cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
		cfg.Database.BusyTimeout = 5000
		cfg.Database.ConnMaxLife = 5 * time.Minute
		cfg.Database.QueryTimeout = 30 * time.Second
		cfg.Logging.Level = "info"
		cfg.Logging.Format = "text"
		return cfg
	}

	// Valid config should pass validation
	err := validConfig().Validate()
	assert.NoError(t, err)

	// Missing locale
	invalidApp := validConfig()
	invalidApp.App.Locale = ""
	err = invalidApp.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app config")

	// Remote enabled without a URL
	invalidRemote := validConfig()
	invalidRemote.Remote.Enabled = true
	invalidRemote.Remote.Timeout = 30 * time.Second
	invalidRemote.Remote.URL = ""
	err = invalidRemote.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "remote config")

	// Remote disabled skips remote validation entirely
	disabledRemote := validConfig()
	disabledRemote.Remote.URL = ""
	err = disabledRemote.Validate()
	assert.NoError(t, err)

	// Non-positive sync interval
	invalidSync := validConfig()
	invalidSync.Sync.Interval = 0
	err = invalidSync.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync config")

	// Invalid logging level
	invalidLogging := validConfig()
	invalidLogging.Logging.Level = "invalid"
	err = invalidLogging.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "logging config")
}

func TestParseLoglevel(t *testing.T) {
	tests := []struct {
		level  string
		expect slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", slog.Level(9999)},
		{"invalid", slog.LevelInfo}, // Default to info for invalid levels
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level := ParseLogLevel(tt.level)
			assert.Equal(t, tt.expect, level)
		})
	}
}

func TestCheckDirectoryWritable(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Should be writable
	err := checkDirectoryWritable(tempDir)
	assert.NoError(t, err)

	// Test with non-existent directory
	err = checkDirectoryWritable("/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestTokenObfuscation(t *testing.T) {
	token := "crt_8f14e45fceea167a"

	obfuscated, err := obfuscateToken(token)
	assert.NoError(t, err)
	assert.NotEqual(t, token, obfuscated)
	assert.Contains(t, obfuscated, "OBFS:")

	restored, err := deobfuscateToken(obfuscated)
	assert.NoError(t, err)
	assert.Equal(t, token, restored)

	// Plain values pass through untouched
	plain, err := deobfuscateToken("not-obfuscated")
	assert.NoError(t, err)
	assert.Equal(t, "not-obfuscated", plain)
}

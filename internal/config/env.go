package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	// Load empty configuration
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".cityreport")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Default database and log paths live in the config directory
	cfg.Database.Path = filepath.Join(configDir, "cityreport.db")
	defaultLogPath := filepath.Join(configDir, "cityreport.log")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		// User specified a custom env file path
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first
		if err := godotenv.Load(configFilePath); err != nil {
			// Then try current directory as fallback
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	// Application Configuration
	cfg.App = AppConfig{
		Locale: getEnvString("CITYREPORT_LOCALE", "fr"),
	}

	// Remote API Configuration
	cfg.Remote = RemoteConfig{
		Enabled:           getEnvBool("CITYREPORT_REMOTE_ENABLED", false),
		URL:               getEnvString("CITYREPORT_REMOTE_URL", "http://localhost:3000"),
		Token:             getEnvString("CITYREPORT_REMOTE_TOKEN", ""),
		Timeout:           getEnvDuration("CITYREPORT_REMOTE_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("CITYREPORT_REMOTE_MAX_RETRIES", 3),
		DeviceName:        getEnvString("CITYREPORT_REMOTE_DEVICE_NAME", ""),
		RequestsPerMinute: getEnvInt("CITYREPORT_REMOTE_REQUESTS_PER_MINUTE", 120),
		BurstLimit:        getEnvInt("CITYREPORT_REMOTE_BURST_LIMIT", 10),
	}

	// Photo Storage Configuration
	cfg.Storage = StorageConfig{
		Endpoint:       getEnvString("CITYREPORT_STORAGE_ENDPOINT", "localhost:9000"),
		PublicEndpoint: getEnvString("CITYREPORT_STORAGE_PUBLIC_ENDPOINT", ""),
		AccessKey:      getEnvString("CITYREPORT_STORAGE_ACCESS_KEY", ""),
		SecretKey:      getEnvString("CITYREPORT_STORAGE_SECRET_KEY", ""),
		Bucket:         getEnvString("CITYREPORT_STORAGE_BUCKET", "report-photos"),
		UseSSL:         getEnvBool("CITYREPORT_STORAGE_USE_SSL", false),
	}

	// Sync Scheduler Configuration
	cfg.Sync = SyncConfig{
		Interval:    getEnvDuration("CITYREPORT_SYNC_INTERVAL", 15*time.Minute),
		MaxBackoffs: uint64(getEnvInt("CITYREPORT_SYNC_MAX_BACKOFFS", 5)),
	}

	// Database Configuration
	cfg.Database = DatabaseConfig{
		Path:            getEnvString("CITYREPORT_DB_PATH", cfg.Database.Path),
		BusyTimeout:     getEnvInt("CITYREPORT_DB_BUSY_TIMEOUT", 5000),
		JournalMode:     getEnvString("CITYREPORT_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("CITYREPORT_DB_SYNCHRONOUS_MODE", "NORMAL"),
		CacheSize:       getEnvInt("CITYREPORT_DB_CACHE_SIZE", -64000), // ~64MB
		ForeignKeys:     getEnvBool("CITYREPORT_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("CITYREPORT_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("CITYREPORT_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	// Logging Configuration
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("CITYREPORT_LOG_LEVEL", "info"),
		Format:     getEnvString("CITYREPORT_LOG_FORMAT", "text"),
		Output:     getEnvString("CITYREPORT_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("CITYREPORT_LOG_ADD_SOURCE", true),
		TimeFormat: getTimeFormat(getEnvString("CITYREPORT_LOG_TIME_FORMAT", time.RFC3339)),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}

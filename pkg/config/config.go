// Package config provides configuration management for the PPE ledger.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Storage       StorageConfig
	Analysis      AnalysisConfig
	Notifications NotificationsConfig
	Sync          SyncConfig
	Server        ServerConfig
	Debug         bool
}

// StorageConfig represents local persistence configuration.
type StorageConfig struct {
	DataRoot     string
	DBPath       string
	ExportDir    string
	FixturesPath string
}

// AnalysisConfig represents expiry and report windows.
type AnalysisConfig struct {
	WarningDays  int
	TimelineDays int
}

// NotificationsConfig represents expiration check settings.
type NotificationsConfig struct {
	Enabled       bool
	CheckInterval time.Duration
}

// SyncConfig represents remote sync client configuration.
type SyncConfig struct {
	Enabled   bool
	ServerURL string
	User      string
	Timeout   time.Duration
	MergeKey  string
}

// ServerConfig represents the sync server configuration.
type ServerConfig struct {
	Port   string
	DBPath string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	warningDays, err := parseIntEnv("PPE_WARNING_DAYS", 30)
	if err != nil {
		return nil, err
	}
	if warningDays < 0 {
		return nil, fmt.Errorf("invalid PPE_WARNING_DAYS: must not be negative, got %d", warningDays)
	}

	timelineDays, err := parseIntEnv("PPE_TIMELINE_DAYS", 30)
	if err != nil {
		return nil, err
	}

	checkHours, err := parseIntEnv("PPE_CHECK_INTERVAL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	notificationsEnabled, err := parseBoolEnv("PPE_NOTIFICATIONS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	syncEnabled, err := parseBoolEnv("SYNC_ENABLED", false)
	if err != nil {
		return nil, err
	}

	syncTimeout, err := parseDurationEnv("SYNC_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Storage: StorageConfig{
			DataRoot:     getEnvOrDefault("PPE_DATA_ROOT", "./data"),
			DBPath:       os.Getenv("PPE_DB_PATH"),
			ExportDir:    os.Getenv("PPE_EXPORT_DIR"),
			FixturesPath: getEnvOrDefault("PPE_FIXTURES_PATH", "config/fixtures.yaml"),
		},
		Analysis: AnalysisConfig{
			WarningDays:  warningDays,
			TimelineDays: timelineDays,
		},
		Notifications: NotificationsConfig{
			Enabled:       notificationsEnabled,
			CheckInterval: time.Duration(checkHours) * time.Hour,
		},
		Sync: SyncConfig{
			Enabled:   syncEnabled,
			ServerURL: strings.TrimRight(getEnvOrDefault("SYNC_SERVER_URL", "http://localhost:8000"), "/"),
			User:      getEnvOrDefault("SYNC_USER", "admin"),
			Timeout:   syncTimeout,
			MergeKey:  getEnvOrDefault("SYNC_MERGE_KEY", "name-timestamp"),
		},
		Server: ServerConfig{
			Port:   getEnvOrDefault("SYNC_SERVER_PORT", "8000"),
			DBPath: getEnvOrDefault("SYNC_SERVER_DB", "./data/sync.db"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "storage":
			switch path[1] {
			case "dataRoot":
				value = c.Storage.DataRoot
			case "dbPath":
				value = c.Storage.DBPath
			case "exportDir":
				value = c.Storage.ExportDir
			case "fixturesPath":
				value = c.Storage.FixturesPath
			}
		case "sync":
			switch path[1] {
			case "serverUrl":
				value = c.Sync.ServerURL
			case "user":
				value = c.Sync.User
			}
		case "server":
			switch path[1] {
			case "port":
				value = c.Server.Port
			case "dbPath":
				value = c.Server.DBPath
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}

	return parsed, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}

	return parsed, nil
}

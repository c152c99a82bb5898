package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Remote finance server
	APIBaseURL string
	FetchSize  int

	// Local state
	StateDir     string
	SQLiteDBPath string

	// Backend selection
	DataBackend string

	// AI transport selection
	AITransport  string
	GeminiAPIKey string
	GeminiModel  string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Dashboard cache
	CacheTTL time.Duration

	// Worker
	WorkerInterval time.Duration
	RetentionDays  int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		FetchSize:  getEnvInt("FETCH_SIZE", 200),

		StateDir:     getEnv("STATE_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		DataBackend: getEnv("DATA_BACKEND", "remote"),

		AITransport:  getEnv("AI_TRANSPORT", "server"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "refresh_mirror"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		WorkerInterval: getEnvDuration("WORKER_INTERVAL", 5*time.Minute),
		RetentionDays:  getEnvInt("RETENTION_DAYS", 365),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate API base URL
	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.FetchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid fetch size %d: must be at least 1", c.FetchSize))
	} else if c.FetchSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid fetch size %d: must be at most 10000", c.FetchSize))
	}

	// Validate data backend
	validBackends := []string{"remote", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AI transport selection
	validTransports := []string{"server", "gemini", "heuristic"}
	isValidTransport := false
	for _, transport := range validTransports {
		if c.AITransport == transport {
			isValidTransport = true
			break
		}
	}
	if !isValidTransport {
		errors = append(errors, fmt.Sprintf("invalid AI transport '%s': must be one of %v", c.AITransport, validTransports))
	}
	if c.AITransport == "gemini" && c.GeminiAPIKey == "" {
		errors = append(errors, "Gemini API key is required when using the gemini AI transport")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets export configuration if enabled
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
		}

		hasAccountFile := c.GoogleServiceAccountFile != ""
		hasAccountJSON := c.GoogleServiceAccountJSON != ""
		if !hasAccountFile && !hasAccountJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}

		if hasAccountFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate cache and worker timings
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	if c.WorkerInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid worker interval %v: must be at least 1 second", c.WorkerInterval))
	} else if c.WorkerInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid worker interval %v: must be at most 24 hours", c.WorkerInterval))
	}

	if c.RetentionDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid retention %d days: must be at least 1", c.RetentionDays))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

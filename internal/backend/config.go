package backend

import (
	"fmt"

	appconfig "github.com/monukmodi/smart-expense-tracker-client/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	// Transaction source selection
	Source SourceType

	// Remote server
	APIBaseURL string
	StateDir   string

	// SQLite mirror
	SQLiteDBPath string

	// AI transport selection
	Transport    TransportType
	GeminiAPIKey string
	GeminiModel  string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *appconfig.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.DataBackend)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	transportType := TransportType(appConfig.AITransport)
	if !transportType.IsValid() {
		return Config{}, fmt.Errorf("invalid AI transport in config: %s", appConfig.AITransport)
	}

	return Config{
		Source:       sourceType,
		APIBaseURL:   appConfig.APIBaseURL,
		StateDir:     appConfig.StateDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		Transport:    transportType,
		GeminiAPIKey: appConfig.GeminiAPIKey,
		GeminiModel:  appConfig.GeminiModel,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Source.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Source)
	}
	if !c.Transport.IsValid() {
		return fmt.Errorf("invalid transport type: %s", c.Transport)
	}

	switch c.Source {
	case RemoteSource:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required for remote source")
		}
	case SQLiteSource:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite source")
		}
	case MemorySource:
		// Memory source seeds itself from the state directory when present.
	}

	switch c.Transport {
	case ServerTransport:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required for server transport")
		}
	case GeminiTransport:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("Gemini API key is required for gemini transport")
		}
	}

	return nil
}

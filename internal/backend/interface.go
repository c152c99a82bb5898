package backend

import (
	"context"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/api"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result bundles the wired transaction source and advisor for one run.
// Client is the upstream API client; it also serves auth regardless of
// which source or transport was selected.
type Result struct {
	Source  aggregate.TransactionSource
	Advisor *ai.Orchestrator
	Client  *api.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// SourceType selects where transactions are read from.
type SourceType string

const (
	RemoteSource SourceType = "remote"
	SQLiteSource SourceType = "sqlite"
	MemorySource SourceType = "memory"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid
func (st SourceType) IsValid() bool {
	switch st {
	case RemoteSource, SQLiteSource, MemorySource:
		return true
	default:
		return false
	}
}

// TransportType selects which engine serves the AI operations.
type TransportType string

const (
	ServerTransport    TransportType = "server"
	GeminiTransport    TransportType = "gemini"
	HeuristicTransport TransportType = "heuristic"
)

// String implements fmt.Stringer
func (tt TransportType) String() string {
	return string(tt)
}

// IsValid returns true if the transport type is valid
func (tt TransportType) IsValid() bool {
	switch tt {
	case ServerTransport, GeminiTransport, HeuristicTransport:
		return true
	default:
		return false
	}
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai/gemini"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai/heuristic"
	"github.com/monukmodi/smart-expense-tracker-client/internal/api"
	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
	"github.com/monukmodi/smart-expense-tracker-client/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sess := session.NewFileStore(config.StateDir)
	client := api.NewClient(config.APIBaseURL, sess)

	source, cleanup, err := f.createSource(config, client)
	if err != nil {
		return nil, err
	}

	advisor, err := f.createAdvisor(ctx, config, client, source)
	if err != nil {
		if cleanup != nil {
			_ = cleanup()
		}
		return nil, err
	}

	f.logger.Info("Initialized backend",
		"source", config.Source.String(),
		"ai_transport", config.Transport.String())

	return &Result{
		Source:  source,
		Advisor: advisor,
		Client:  client,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createSource(config Config, client *api.Client) (aggregate.TransactionSource, CleanupFunc, error) {
	switch config.Source {
	case RemoteSource:
		return client, nil, nil

	case SQLiteSource:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite mirror: %w", err)
		}
		f.logger.Info("Initialized SQLite source", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil

	case MemorySource:
		store, err := NewMemoryStore(config.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize memory source: %w", err)
		}
		f.logger.Info("Initialized memory source", "state_dir", config.StateDir, "seeded", store.Len())
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", config.Source)
	}
}

func (f *DefaultFactory) createAdvisor(ctx context.Context, config Config, client *api.Client, source aggregate.TransactionSource) (*ai.Orchestrator, error) {
	switch config.Transport {
	case ServerTransport:
		return ai.NewOrchestrator(client, client, client), nil

	case GeminiTransport:
		engine, err := gemini.New(ctx, config.GeminiAPIKey, config.GeminiModel, source)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini engine: %w", err)
		}
		return ai.NewOrchestrator(engine, engine, engine), nil

	case HeuristicTransport:
		engine := heuristic.New(source)
		return ai.NewOrchestrator(engine, engine, engine), nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", config.Transport)
	}
}

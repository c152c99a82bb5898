package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

func TestSourceTypeIsValid(t *testing.T) {
	tests := []struct {
		source SourceType
		valid  bool
	}{
		{RemoteSource, true},
		{SQLiteSource, true},
		{MemorySource, true},
		{SourceType("postgres"), false},
		{SourceType(""), false},
	}

	for _, tt := range tests {
		if got := tt.source.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.source, got, tt.valid)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "remote with server transport",
			config: Config{Source: RemoteSource, Transport: ServerTransport, APIBaseURL: "http://localhost:8080"},
		},
		{
			name:    "remote without base URL",
			config:  Config{Source: RemoteSource, Transport: HeuristicTransport},
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			config:  Config{Source: SQLiteSource, Transport: HeuristicTransport},
			wantErr: true,
		},
		{
			name:   "memory with heuristic",
			config: Config{Source: MemorySource, Transport: HeuristicTransport},
		},
		{
			name:    "gemini without key",
			config:  Config{Source: MemorySource, Transport: GeminiTransport},
			wantErr: true,
		},
		{
			name:    "unknown transport",
			config:  Config{Source: MemorySource, Transport: TransportType("psychic")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMemoryStoreSeedFile(t *testing.T) {
	dir := t.TempDir()
	seed := `[
		{"id":"a","amountCents":1200,"date":"2025-06-10T00:00:00Z","category":"Food"},
		{"id":"b","amountCents":-90000,"date":"2025-06-12T00:00:00Z","category":"Salary"}
	]`
	if err := os.WriteFile(filepath.Join(dir, seedFileName), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewMemoryStore(dir)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d", store.Len())
	}

	txs, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if txs[0].ID != "b" || txs[1].ID != "a" {
		t.Errorf("order: %s %s", txs[0].ID, txs[1].ID)
	}
	if txs[0].Amount.Cents != -90000 {
		t.Errorf("amount: %d", txs[0].Amount.Cents)
	}
}

func TestMemoryStoreMissingSeedIsEmpty(t *testing.T) {
	store, err := NewMemoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	txs, err := store.List(context.Background(), 10)
	if err != nil || len(txs) != 0 {
		t.Errorf("List = %v, %v", txs, err)
	}
}

func TestMemoryStoreListLimit(t *testing.T) {
	store := &MemoryStore{}
	now := time.Now()
	for i := 0; i < 5; i++ {
		store.Add(core.Transaction{ID: string(rune('a' + i)), Date: now.AddDate(0, 0, -i)})
	}

	txs, err := store.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 3 || txs[0].ID != "a" {
		t.Errorf("List = %+v", txs)
	}
}

func TestFactoryCreatesHeuristicBackend(t *testing.T) {
	factory := NewFactory(nil)
	cfg := Config{
		Source:    MemorySource,
		Transport: HeuristicTransport,
		StateDir:  t.TempDir(),
	}

	res, err := factory.CreateBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Source == nil || res.Advisor == nil || res.Client == nil {
		t.Errorf("result incomplete: %+v", res)
	}
	if res.Cleanup != nil {
		_ = res.Cleanup()
	}
}

func TestFactoryCreatesSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)
	cfg := Config{
		Source:       SQLiteSource,
		Transport:    HeuristicTransport,
		SQLiteDBPath: filepath.Join(t.TempDir(), "mirror.db"),
	}

	res, err := factory.CreateBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite backend should expose a cleanup")
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("cleanup: %v", err)
	}
}

func TestFactoryRejectsInvalidConfig(t *testing.T) {
	factory := NewFactory(nil)

	_, err := factory.CreateBackend(context.Background(), Config{
		Source:    SourceType("postgres"),
		Transport: HeuristicTransport,
	})
	if err == nil {
		t.Fatal("invalid source should fail")
	}
}

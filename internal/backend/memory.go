package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

// MemoryStore serves transactions from a JSON seed file, for local runs
// without a server or mirror. A missing seed file is an empty store.
type MemoryStore struct {
	mu  sync.RWMutex
	txs []core.Transaction
}

const seedFileName = "transactions.json"

// seedTransaction is the on-disk shape of one seeded entry.
type seedTransaction struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amountCents"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	Category    string    `json:"category"`
	Note        string    `json:"note"`
}

// NewMemoryStore loads dir/transactions.json when it exists.
func NewMemoryStore(dir string) (*MemoryStore, error) {
	store := &MemoryStore{}

	if dir == "" {
		return store, nil
	}

	path := filepath.Join(dir, seedFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seeds []seedTransaction
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for _, seed := range seeds {
		store.txs = append(store.txs, core.Transaction{
			ID:        seed.ID,
			Amount:    core.Money{Cents: seed.AmountCents},
			Date:      seed.Date,
			CreatedAt: seed.CreatedAt,
			Category:  seed.Category,
			Note:      seed.Note,
		})
	}
	return store, nil
}

// List returns up to size transactions, newest effective date first.
func (s *MemoryStore) List(ctx context.Context, size int) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate().After(out[j].EffectiveDate())
	})

	if size > 0 && len(out) > size {
		out = out[:size]
	}
	return out, nil
}

// Add appends transactions, mainly for tests and demo seeding.
func (s *MemoryStore) Add(txs ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, txs...)
}

// Len reports how many transactions the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

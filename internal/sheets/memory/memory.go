// Package memory holds an in-memory OverviewWriter for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "github.com/monukmodi/smart-expense-tracker-client/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []ports.OverviewRow
}

var _ ports.OverviewWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendOverview(ctx context.Context, row ports.OverviewRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, row)
	return fmt.Sprintf("memory!A%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []ports.OverviewRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ports.OverviewRow, len(s.rows))
	copy(out, s.rows)
	return out
}

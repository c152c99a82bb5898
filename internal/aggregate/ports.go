package aggregate

import (
	"context"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

// TransactionSource is the outbound port for fetching transactions.
// Implementations return up to size most-recent transactions in no
// particular order; the aggregator performs its own sorting and filtering.
type TransactionSource interface {
	List(ctx context.Context, size int) ([]core.Transaction, error)
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

var _ aggregate.TransactionSource = (*Client)(nil)

// wireTransaction tolerates the loose shapes the backend emits: amounts may
// be numbers or strings, dates may be RFC 3339 or date-only, and any field
// may be absent. Malformed values coerce to zero, never to an error.
type wireTransaction struct {
	ID        string          `json:"id"`
	Amount    json.RawMessage `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt string          `json:"createdAt"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
}

type listResponse struct {
	Items []wireTransaction `json:"items"`
}

// List implements aggregate.TransactionSource against GET /api/transactions.
func (c *Client) List(ctx context.Context, size int) ([]core.Transaction, error) {
	var resp listResponse
	path := fmt.Sprintf("/api/transactions?size=%d", size)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, core.Transaction{
			ID:        item.ID,
			Amount:    coerceAmount(item.Amount),
			Date:      coerceTime(item.Date),
			CreatedAt: coerceTime(item.CreatedAt),
			Category:  item.Category,
			Note:      item.Note,
		})
	}
	return out, nil
}

// coerceAmount accepts a JSON number (dollars), a numeric string, or
// nothing at all.
func coerceAmount(raw json.RawMessage) core.Money {
	if len(raw) == 0 {
		return core.Money{}
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return core.Money{Cents: roundCents(asNumber)}
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return core.ParseAmount(asString)
	}
	return core.Money{}
}

// roundCents converts dollars to cents with half-up rounding away from zero.
func roundCents(dollars float64) int64 {
	scaled := dollars * 100
	if scaled >= 0 {
		return int64(scaled + 0.5)
	}
	return int64(scaled - 0.5)
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func coerceTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

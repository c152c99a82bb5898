// Package heuristic is the free analysis path: locally computed forecasts,
// tips, and recurring-bill detection over the transaction history. It backs
// the freeOnly mode when no paid provider is configured and is what a
// degraded backend answer looks like.
package heuristic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

const (
	defaultDays = 30
	fetchSize   = 500

	// A description must repeat at least this often, at a near-constant
	// interval, to count as a recurring bill.
	minOccurrences   = 3
	maxJitterDays    = 3
	minIntervalDays  = 5
	highCategoryPart = 0.35
)

// Engine implements all three capability ports over a transaction source.
type Engine struct {
	source aggregate.TransactionSource
	now    func() time.Time
}

func New(source aggregate.TransactionSource) *Engine {
	return &Engine{source: source, now: time.Now}
}

// NewAt pins the clock, for tests.
func NewAt(source aggregate.TransactionSource, now func() time.Time) *Engine {
	return &Engine{source: source, now: now}
}

var (
	_ ai.PredictionService = (*Engine)(nil)
	_ ai.CoachService      = (*Engine)(nil)
	_ ai.RecurringService  = (*Engine)(nil)
)

// Predict projects next-month spend from the average daily spend over the
// analyzed window.
func (e *Engine) Predict(ctx context.Context, req ai.Request) (ai.Result[ai.Prediction], error) {
	txs, days, err := e.window(ctx, req)
	if err != nil {
		return ai.Result[ai.Prediction]{}, err
	}

	var spentCents int64
	for _, tx := range txs {
		if tx.IsExpense() {
			spentCents += tx.Amount.Cents
		}
	}

	perDay := spentCents / int64(days)
	predicted := perDay * 30

	return ai.Result[ai.Prediction]{
		Payload: ai.Prediction{
			PredictedCents: predicted,
			Details: fmt.Sprintf("Projected from %s/day average over the last %d days (%d transactions).",
				core.Money{Cents: perDay}, days, len(txs)),
		},
		Source: ai.SourceHeuristic,
	}, nil
}

// Coach derives rule-based tips from category concentration and balance.
func (e *Engine) Coach(ctx context.Context, req ai.Request) (ai.Result[ai.CoachTips], error) {
	txs, days, err := e.window(ctx, req)
	if err != nil {
		return ai.Result[ai.CoachTips]{}, err
	}

	overview := aggregate.Aggregate(txs, e.now())

	var tips []string
	if len(overview.Categories) > 0 && overview.Summary.TotalSpent.Cents > 0 {
		top := overview.Categories[0]
		if top.Amount.Cents > 0 {
			share := float64(top.Amount.Cents) / float64(overview.Summary.TotalSpent.Cents)
			if share >= highCategoryPart {
				tips = append(tips, fmt.Sprintf("%.0f%% of your spend over the last %d days went to %s. Consider setting a cap for it.",
					share*100, days, top.Name))
			}
		}
	}
	if overview.Summary.Balance.Cents < 0 {
		tips = append(tips, fmt.Sprintf("You spent %s more than you earned in this period. Review your largest categories first.",
			overview.Summary.Balance.Abs()))
	}
	if len(tips) == 0 {
		tips = append(tips, "Spending looks balanced. Keep categorizing transactions to get sharper advice.")
	}

	return ai.Result[ai.CoachTips]{
		Payload: ai.CoachTips{Tips: tips},
		Source:  ai.SourceHeuristic,
	}, nil
}

// ScanRecurring groups expenses by normalized description and reports the
// groups that repeat at a near-constant interval with at least three hits.
func (e *Engine) ScanRecurring(ctx context.Context, req ai.Request) (ai.Result[ai.Recurring], error) {
	txs, _, err := e.window(ctx, req)
	if err != nil {
		return ai.Result[ai.Recurring]{}, err
	}

	groups := make(map[string][]core.Transaction)
	for _, tx := range txs {
		if !tx.IsExpense() || tx.Amount.Cents == 0 {
			continue
		}
		key := normalizeDescription(tx.Note)
		if key == "" {
			key = strings.ToLower(tx.CategoryLabel())
		}
		groups[key] = append(groups[key], tx)
	}

	var items []ai.RecurringItem
	for _, group := range groups {
		if item, ok := detectPeriodic(group); ok {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AmountCents != items[j].AmountCents {
			return items[i].AmountCents > items[j].AmountCents
		}
		return items[i].Description < items[j].Description
	})

	return ai.Result[ai.Recurring]{
		Payload: ai.Recurring{Items: items},
		Source:  ai.SourceHeuristic,
	}, nil
}

// window fetches the history and filters it to the requested day span.
func (e *Engine) window(ctx context.Context, req ai.Request) ([]core.Transaction, int, error) {
	days := req.Days
	if days <= 0 {
		days = defaultDays
	}

	all, err := e.source.List(ctx, fetchSize)
	if err != nil {
		return nil, 0, fmt.Errorf("load history: %w", err)
	}

	cutoff := core.TruncateToDay(e.now()).AddDate(0, 0, -days)
	var out []core.Transaction
	for _, tx := range all {
		if !tx.EffectiveDate().Before(cutoff) {
			out = append(out, tx)
		}
	}
	return out, days, nil
}

// normalizeDescription strips digits and collapses whitespace so
// "Netflix #4521" and "Netflix #4611" group together.
func normalizeDescription(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= '0' && r <= '9':
			continue
		case r == ' ' || r == '\t' || r == '#' || r == '-' || r == '*':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

func detectPeriodic(group []core.Transaction) (ai.RecurringItem, bool) {
	if len(group) < minOccurrences {
		return ai.RecurringItem{}, false
	}

	sorted := make([]core.Transaction, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate().Before(sorted[j].EffectiveDate())
	})

	var intervals []int
	for i := 1; i < len(sorted); i++ {
		gap := int(sorted[i].EffectiveDate().Sub(sorted[i-1].EffectiveDate()).Hours() / 24)
		intervals = append(intervals, gap)
	}

	sum := 0
	for _, gap := range intervals {
		sum += gap
	}
	mean := sum / len(intervals)
	if mean < minIntervalDays {
		return ai.RecurringItem{}, false
	}
	for _, gap := range intervals {
		if gap < mean-maxJitterDays || gap > mean+maxJitterDays {
			return ai.RecurringItem{}, false
		}
	}

	var totalCents int64
	for _, tx := range sorted {
		totalCents += tx.Amount.Cents
	}

	return ai.RecurringItem{
		Description:  sorted[len(sorted)-1].Note,
		AmountCents:  totalCents / int64(len(sorted)),
		IntervalDays: mean,
		Occurrences:  len(sorted),
	}, true
}

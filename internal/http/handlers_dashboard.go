package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
)

const sourceTimeout = 10 * time.Second

type dashboardResponse struct {
	User       *session.Profile     `json:"user,omitempty"`
	Summary    summaryPayload       `json:"summary"`
	Daily      []dailyPoint         `json:"daily"`
	Categories []categoryTotal      `json:"categories"`
	Recent     []transactionPayload `json:"recent"`
	Charts     chartsPayload        `json:"charts"`
	Cached     bool                 `json:"cached"`
}

type summaryPayload struct {
	TotalSpent   float64 `json:"totalSpent"`
	TotalIncome  float64 `json:"totalIncome"`
	Balance      float64 `json:"balance"`
	MonthSpent   float64 `json:"monthSpent"`
	MonthIncome  float64 `json:"monthIncome"`
	MonthBalance float64 `json:"monthBalance"`
}

type dailyPoint struct {
	Day    string  `json:"day"` // YYYY-MM-DD
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type categoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type transactionPayload struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Expense  bool    `json:"expense"`
}

type chartsPayload struct {
	Line aggregate.LineSeries `json:"line"`
	Pie  []aggregate.PieSlice `json:"pie"`
}

// handleDashboard serves the aggregated dashboard view. Results are cached
// per fetch size; a refresh purges the cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	size := parseIntParam(r, "size", s.fetchSize)
	key := strconv.Itoa(size)

	if resp, found := s.dashCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "size", size)
		resp.Cached = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp, err := s.buildDashboard(r.Context(), size)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build failed", "error", err, "size", size)
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}

	s.dashCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(ctx context.Context, size int) (dashboardResponse, error) {
	cctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	// The transaction fetch goes over the wire; the profile read hits the
	// session file. Run them together.
	var (
		txs  []core.Transaction
		user *session.Profile
	)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		var err error
		txs, err = s.source.List(gctx, size)
		return err
	})
	g.Go(func() error {
		if s.auth != nil {
			user = s.auth.CurrentUser()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboardResponse{}, err
	}

	now := time.Now()
	overview := aggregate.Aggregate(txs, now)
	recent := aggregate.Recent(txs, aggregate.RecentLimit)

	resp := dashboardResponse{
		User: user,
		Summary: summaryPayload{
			TotalSpent:   overview.Summary.TotalSpent.Dollars(),
			TotalIncome:  overview.Summary.TotalIncome.Dollars(),
			Balance:      overview.Summary.Balance.Dollars(),
			MonthSpent:   overview.Summary.MonthSpent.Dollars(),
			MonthIncome:  overview.Summary.MonthIncome.Dollars(),
			MonthBalance: overview.Summary.MonthBalance.Dollars(),
		},
		Daily:      make([]dailyPoint, 0, aggregate.DailyWindow),
		Categories: make([]categoryTotal, 0, len(overview.Categories)),
		Recent:     make([]transactionPayload, 0, len(recent)),
	}

	for _, bucket := range overview.Daily {
		resp.Daily = append(resp.Daily, dailyPoint{
			Day:    bucket.Day.Format("2006-01-02"),
			Label:  bucket.Label,
			Amount: bucket.Amount.Dollars(),
		})
	}
	for _, cat := range overview.Categories {
		resp.Categories = append(resp.Categories, categoryTotal{
			Name:   cat.Name,
			Amount: cat.Amount.Dollars(),
		})
	}
	for _, tx := range recent {
		resp.Recent = append(resp.Recent, newTransactionPayload(tx))
	}

	resp.Charts.Line = aggregate.Line(overview.Daily)
	resp.Charts.Pie = aggregate.Pie(overview.Categories)
	if resp.Charts.Pie == nil {
		resp.Charts.Pie = []aggregate.PieSlice{}
	}

	return resp, nil
}

func newTransactionPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:       tx.ID,
		Amount:   tx.Amount.Dollars(),
		Date:     tx.EffectiveDate().Format(time.RFC3339),
		Category: tx.CategoryLabel(),
		Note:     tx.Note,
		Expense:  tx.IsExpense(),
	}
}

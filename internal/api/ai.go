package api

import (
	"context"

	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
)

// The client implements all three capability ports; the orchestrator's
// fallback policy sits on top of these single-call methods.
var (
	_ ai.PredictionService = (*Client)(nil)
	_ ai.CoachService      = (*Client)(nil)
	_ ai.RecurringService  = (*Client)(nil)
)

type predictResponse struct {
	Prediction float64 `json:"prediction"` // dollars
	Details    string  `json:"details"`
	Source     string  `json:"source"`
	Cached     bool    `json:"cached"`
}

// Predict calls POST /api/predict.
func (c *Client) Predict(ctx context.Context, req ai.Request) (ai.Result[ai.Prediction], error) {
	var resp predictResponse
	if err := c.do(ctx, "POST", "/api/predict", req, &resp); err != nil {
		return ai.Result[ai.Prediction]{}, err
	}
	return ai.Result[ai.Prediction]{
		Payload: ai.Prediction{
			PredictedCents: roundCents(resp.Prediction),
			Details:        resp.Details,
		},
		Source: resp.Source,
		Cached: resp.Cached,
	}, nil
}

type coachResponse struct {
	Coach  []string `json:"coach"`
	Source string   `json:"source"`
	Cached bool     `json:"cached"`
}

// Coach calls POST /api/ai/coach.
func (c *Client) Coach(ctx context.Context, req ai.Request) (ai.Result[ai.CoachTips], error) {
	var resp coachResponse
	if err := c.do(ctx, "POST", "/api/ai/coach", req, &resp); err != nil {
		return ai.Result[ai.CoachTips]{}, err
	}
	return ai.Result[ai.CoachTips]{
		Payload: ai.CoachTips{Tips: resp.Coach},
		Source:  resp.Source,
		Cached:  resp.Cached,
	}, nil
}

type recurringResponse struct {
	Items []struct {
		Description  string  `json:"description"`
		Amount       float64 `json:"amount"` // dollars
		IntervalDays int     `json:"intervalDays"`
		Occurrences  int     `json:"occurrences"`
	} `json:"items"`
	Source string `json:"source"`
	Cached bool   `json:"cached"`
}

// ScanRecurring calls POST /api/ai/recurring/scan.
func (c *Client) ScanRecurring(ctx context.Context, req ai.Request) (ai.Result[ai.Recurring], error) {
	var resp recurringResponse
	if err := c.do(ctx, "POST", "/api/ai/recurring/scan", req, &resp); err != nil {
		return ai.Result[ai.Recurring]{}, err
	}

	items := make([]ai.RecurringItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, ai.RecurringItem{
			Description:  item.Description,
			AmountCents:  roundCents(item.Amount),
			IntervalDays: item.IntervalDays,
			Occurrences:  item.Occurrences,
		})
	}
	return ai.Result[ai.Recurring]{
		Payload: ai.Recurring{Items: items},
		Source:  resp.Source,
		Cached:  resp.Cached,
	}, nil
}

package ai

import "context"

// Request is the wire-shaped payload every capability endpoint accepts.
// Days is forwarded unmodified; a zero Provider lets the server pick.
type Request struct {
	Days     int      `json:"days"`
	FreeOnly bool     `json:"freeOnly"`
	Provider Provider `json:"provider,omitempty"`
}

type (
	// Prediction is the forecast payload: projected spend for the coming
	// period plus a human-readable explanation.
	Prediction struct {
		PredictedCents int64  `json:"predictedCents"`
		Details        string `json:"details,omitempty"`
	}

	// CoachTips is the budgeting-advice payload.
	CoachTips struct {
		Tips []string `json:"tips"`
	}

	// RecurringItem is one detected recurring bill.
	RecurringItem struct {
		Description  string `json:"description"`
		AmountCents  int64  `json:"amountCents"`
		IntervalDays int    `json:"intervalDays"`
		Occurrences  int    `json:"occurrences"`
	}

	// Recurring is the recurring-bill scan payload.
	Recurring struct {
		Items []RecurringItem `json:"items"`
	}
)

// Result wraps a payload with the name of whichever backend path actually
// produced it. Source may differ from the requested provider when the
// backend silently degraded to the heuristic path.
type Result[T any] struct {
	Payload T      `json:"payload"`
	Source  string `json:"source"`
	Cached  bool   `json:"cached,omitempty"`
}

// Degraded reports whether the heuristic path served this result.
func (r Result[T]) Degraded() bool {
	return r.Source == SourceHeuristic
}

// Outbound ports, one per capability. Implementations issue a single
// request each; retry and fallback policy lives in the Orchestrator.
type (
	PredictionService interface {
		Predict(ctx context.Context, req Request) (Result[Prediction], error)
	}

	CoachService interface {
		Coach(ctx context.Context, req Request) (Result[CoachTips], error)
	}

	RecurringService interface {
		ScanRecurring(ctx context.Context, req Request) (Result[Recurring], error)
	}
)

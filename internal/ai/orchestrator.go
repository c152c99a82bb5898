// Package ai implements the provider selection and fallback policy for the
// AI-assisted budgeting actions: spend prediction, coaching tips, and
// recurring-bill scans.
//
// Each action issues at most two calls to its backing service. The free and
// explicit-provider modes are a single pass-through call; automatic mode
// prefers Gemini and retries once against OpenAI when the first answer came
// from the degraded heuristic path.
package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// Orchestrator drives the three budgeting capabilities against their
// backing services. It holds no per-call state, so concurrent invocations
// do not interfere with each other.
type Orchestrator struct {
	predictor PredictionService
	coach     CoachService
	recurring RecurringService
}

func NewOrchestrator(predictor PredictionService, coach CoachService, recurring RecurringService) *Orchestrator {
	return &Orchestrator{
		predictor: predictor,
		coach:     coach,
		recurring: recurring,
	}
}

// Predict forecasts upcoming spend from days of history.
//
// Automatic mode is the one capability with a client-side fallback chain:
// prefer gemini, and when the backend answers with the heuristic source,
// spend one more call on openai. A failure of that second call is swallowed
// and the heuristic answer returned, because a degraded answer beats a
// failure after a successful round trip.
func (o *Orchestrator) Predict(ctx context.Context, days int, mode Mode) (Result[Prediction], error) {
	if !mode.IsAutomatic() {
		res, err := o.predictor.Predict(ctx, requestFor(days, mode))
		if err != nil {
			return Result[Prediction]{}, fmt.Errorf("predict: %w", err)
		}
		return res, nil
	}

	first, err := o.predictor.Predict(ctx, Request{Days: days, Provider: ProviderGemini})
	if err != nil {
		return Result[Prediction]{}, fmt.Errorf("predict: %w", err)
	}
	if !first.Degraded() {
		return first, nil
	}

	slog.InfoContext(ctx, "Preferred provider degraded to heuristic, retrying with fallback",
		"preferred", ProviderGemini,
		"fallback", ProviderOpenAI,
		"days", days)

	second, err := o.predictor.Predict(ctx, Request{Days: days, Provider: ProviderOpenAI})
	if err != nil {
		slog.WarnContext(ctx, "Fallback provider failed, keeping heuristic result",
			"provider", ProviderOpenAI,
			"error", err)
		return first, nil
	}
	return second, nil
}

// Coach fetches budgeting tips. Automatic mode lets the server pick.
func (o *Orchestrator) Coach(ctx context.Context, days int, mode Mode) (Result[CoachTips], error) {
	res, err := o.coach.Coach(ctx, requestFor(days, mode))
	if err != nil {
		return Result[CoachTips]{}, fmt.Errorf("coach: %w", err)
	}
	return res, nil
}

// ScanRecurring detects recurring bills. Automatic mode lets the server pick.
func (o *Orchestrator) ScanRecurring(ctx context.Context, days int, mode Mode) (Result[Recurring], error) {
	res, err := o.recurring.ScanRecurring(ctx, requestFor(days, mode))
	if err != nil {
		return Result[Recurring]{}, fmt.Errorf("recurring scan: %w", err)
	}
	return res, nil
}

// requestFor maps a mode to the single request it implies. Automatic maps
// to a server-pick request; Predict overrides that with its own chain.
func requestFor(days int, mode Mode) Request {
	req := Request{Days: days}
	if mode.FreeOnly() {
		req.FreeOnly = true
		return req
	}
	if p, ok := mode.Explicit(); ok {
		req.Provider = p
	}
	return req
}

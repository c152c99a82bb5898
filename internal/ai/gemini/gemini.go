// Package gemini talks to the Gemini API directly, bypassing the finance
// server's AI endpoints. It serves the same three operations from the raw
// transaction history.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
)

const (
	DefaultModelName = "gemini-2.0-flash"

	sourceName = "gemini"

	// historyFetchSize bounds how much history one prompt can carry.
	historyFetchSize = 500
	maxHistoryLines  = 200
)

type Engine struct {
	client *genai.Client
	source aggregate.TransactionSource
	model  string
	now    func() time.Time
}

var (
	_ ai.PredictionService = (*Engine)(nil)
	_ ai.CoachService      = (*Engine)(nil)
	_ ai.RecurringService  = (*Engine)(nil)
)

func New(ctx context.Context, apiKey, model string, source aggregate.TransactionSource) (*Engine, error) {
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Engine{
		client: client,
		source: source,
		model:  model,
		now:    time.Now,
	}, nil
}

func (e *Engine) Predict(ctx context.Context, req ai.Request) (ai.Result[ai.Prediction], error) {
	history, err := e.history(ctx, req.Days)
	if err != nil {
		return ai.Result[ai.Prediction]{}, err
	}

	prompt := "You are a personal finance forecaster.\n\n" +
		"Task:\n" +
		"- Estimate total spending in cents for the NEXT 30 days from the transaction history below.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n\n" +
		"Output shape:\n" +
		`{"predictedCents": <integer>, "details": "<one-sentence rationale>"}` + "\n\n" +
		jsonRules + "\n\n" + history

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return ai.Result[ai.Prediction]{}, err
	}

	payload, err := parsePrediction(raw)
	if err != nil {
		return ai.Result[ai.Prediction]{}, err
	}
	return ai.Result[ai.Prediction]{Payload: payload, Source: sourceName}, nil
}

func (e *Engine) Coach(ctx context.Context, req ai.Request) (ai.Result[ai.CoachTips], error) {
	history, err := e.history(ctx, req.Days)
	if err != nil {
		return ai.Result[ai.CoachTips]{}, err
	}

	prompt := "You are a personal finance coach.\n\n" +
		"Task:\n" +
		"- Give 2 to 4 short, actionable saving tips grounded in the transaction history below.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n\n" +
		"Output shape:\n" +
		`{"tips": ["<tip>", ...]}` + "\n\n" +
		jsonRules + "\n\n" + history

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return ai.Result[ai.CoachTips]{}, err
	}

	payload, err := parseCoachTips(raw)
	if err != nil {
		return ai.Result[ai.CoachTips]{}, err
	}
	return ai.Result[ai.CoachTips]{Payload: payload, Source: sourceName}, nil
}

func (e *Engine) ScanRecurring(ctx context.Context, req ai.Request) (ai.Result[ai.Recurring], error) {
	history, err := e.history(ctx, req.Days)
	if err != nil {
		return ai.Result[ai.Recurring]{}, err
	}

	prompt := "You are a subscription detector for personal finance data.\n\n" +
		"Task:\n" +
		"- Find charges that repeat at a roughly fixed interval in the history below.\n" +
		"- Only report items with at least 3 occurrences.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n\n" +
		"Output shape:\n" +
		`{"items": [{"description": "<merchant>", "amountCents": <integer>, "intervalDays": <integer>, "occurrences": <integer>}]}` + "\n\n" +
		jsonRules + "\n\n" + history

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return ai.Result[ai.Recurring]{}, err
	}

	payload, err := parseRecurring(raw)
	if err != nil {
		return ai.Result[ai.Recurring]{}, err
	}
	return ai.Result[ai.Recurring]{Payload: payload, Source: sourceName}, nil
}

const jsonRules = "Rules:\n" +
	"- Return ONLY valid raw JSON.\n" +
	"- Do NOT wrap the response in code fences.\n" +
	"- Do NOT use ```json or any Markdown.\n" +
	"- All amounts are integer cents."

func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return cleanModelJSON(rawText), nil
}

// history renders the transaction window as prompt lines, newest last.
func (e *Engine) history(ctx context.Context, days int) (string, error) {
	if days < 1 {
		days = 30
	}

	txs, err := e.source.List(ctx, historyFetchSize)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}

	cutoff := e.now().AddDate(0, 0, -days)
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		when := tx.EffectiveDate()
		if when.Before(cutoff) {
			continue
		}
		lines = append(lines, formatLine(when, tx.Amount.Cents, tx.CategoryLabel(), tx.Note))
		if len(lines) >= maxHistoryLines {
			break
		}
	}

	if len(lines) == 0 {
		return "Transaction history (date | cents | category | note):\n(none)", nil
	}
	return "Transaction history (date | cents | category | note):\n" + strings.Join(lines, "\n"), nil
}

func formatLine(when time.Time, cents int64, category, note string) string {
	note = strings.ReplaceAll(note, "\n", " ")
	return fmt.Sprintf("%s | %d | %s | %s", when.Format("2006-01-02"), cents, category, note)
}

func parsePrediction(raw string) (ai.Prediction, error) {
	var out ai.Prediction
	var wire struct {
		PredictedCents int64  `json:"predictedCents"`
		Details        string `json:"details"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return out, fmt.Errorf("unmarshal prediction: %w\nraw response: %s", err, raw)
	}
	out.PredictedCents = wire.PredictedCents
	out.Details = wire.Details
	return out, nil
}

func parseCoachTips(raw string) (ai.CoachTips, error) {
	var wire struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return ai.CoachTips{}, fmt.Errorf("unmarshal tips: %w\nraw response: %s", err, raw)
	}
	return ai.CoachTips{Tips: wire.Tips}, nil
}

func parseRecurring(raw string) (ai.Recurring, error) {
	var wire struct {
		Items []struct {
			Description  string `json:"description"`
			AmountCents  int64  `json:"amountCents"`
			IntervalDays int    `json:"intervalDays"`
			Occurrences  int    `json:"occurrences"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return ai.Recurring{}, fmt.Errorf("unmarshal recurring items: %w\nraw response: %s", err, raw)
	}

	out := ai.Recurring{Items: make([]ai.RecurringItem, 0, len(wire.Items))}
	for _, it := range wire.Items {
		out.Items = append(out.Items, ai.RecurringItem{
			Description:  it.Description,
			AmountCents:  it.AmountCents,
			IntervalDays: it.IntervalDays,
			Occurrences:  it.Occurrences,
		})
	}
	return out, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

package gemini

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain JSON untouched",
			raw:  `{"tips":["a"]}`,
			want: `{"tips":["a"]}`,
		},
		{
			name: "json fence stripped",
			raw:  "```json\n{\"tips\":[\"a\"]}\n```",
			want: `{"tips":["a"]}`,
		},
		{
			name: "bare fence stripped",
			raw:  "```\n{\"x\":1}\n```",
			want: `{"x":1}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  \n{\"x\":1}\n ",
			want: `{"x":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePrediction(t *testing.T) {
	p, err := parsePrediction(`{"predictedCents": 42055, "details": "steady"}`)
	if err != nil {
		t.Fatalf("parsePrediction: %v", err)
	}
	if p.PredictedCents != 42055 || p.Details != "steady" {
		t.Errorf("payload: %+v", p)
	}

	if _, err := parsePrediction(`not json`); err == nil {
		t.Error("garbage should fail to parse")
	}
}

func TestParseRecurring(t *testing.T) {
	rec, err := parseRecurring(`{"items":[{"description":"netflix","amountCents":1599,"intervalDays":30,"occurrences":4}]}`)
	if err != nil {
		t.Fatalf("parseRecurring: %v", err)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("items = %d", len(rec.Items))
	}
	if rec.Items[0].AmountCents != 1599 || rec.Items[0].IntervalDays != 30 {
		t.Errorf("item: %+v", rec.Items[0])
	}

	rec, err = parseRecurring(`{"items":[]}`)
	if err != nil {
		t.Fatalf("empty items: %v", err)
	}
	if len(rec.Items) != 0 {
		t.Errorf("items = %d", len(rec.Items))
	}
}

type fixedSource struct {
	txs []core.Transaction
}

func (f fixedSource) List(ctx context.Context, size int) ([]core.Transaction, error) {
	return f.txs, nil
}

func TestHistoryWindowAndFormat(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	e := &Engine{
		source: fixedSource{txs: []core.Transaction{
			{ID: "in", Amount: core.Money{Cents: 1250}, Date: now.AddDate(0, 0, -3), Category: "Food", Note: "lunch\nwith team"},
			{ID: "out", Amount: core.Money{Cents: 999}, Date: now.AddDate(0, 0, -90), Category: "Food"},
		}},
		now: func() time.Time { return now },
	}

	history, err := e.history(context.Background(), 30)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if !strings.Contains(history, "2025-06-12 | 1250 | Food | lunch with team") {
		t.Errorf("missing in-window line:\n%s", history)
	}
	if strings.Contains(history, "999") {
		t.Errorf("out-of-window transaction leaked:\n%s", history)
	}
}

func TestHistoryEmpty(t *testing.T) {
	e := &Engine{source: fixedSource{}, now: time.Now}

	history, err := e.history(context.Background(), 30)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(history, "(none)") {
		t.Errorf("empty history marker missing:\n%s", history)
	}
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	applog "github.com/monukmodi/smart-expense-tracker-client/internal/log"
)

const defaultWindowDays = 30

// aiRequest is the wire shape shared by the three advisor endpoints.
type aiRequest struct {
	Days     int    `json:"days"`
	FreeOnly bool   `json:"freeOnly"`
	Provider string `json:"provider"`
}

func (s *Server) readAIRequest(w http.ResponseWriter, r *http.Request) (int, ai.Mode, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return 0, ai.Mode{}, false
	}

	var req aiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return 0, ai.Mode{}, false
	}

	days := req.Days
	if days < 1 {
		days = defaultWindowDays
	}

	return days, ai.ResolveMode(req.FreeOnly, req.Provider), true
}

func (s *Server) logAdvisorCall(r *http.Request, op string, mode ai.Mode, source string, start time.Time) {
	provider, _ := mode.Explicit()
	s.slogger.LogAICall(r.Context(), op, mode.String(), string(provider), source, time.Since(start).Milliseconds())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	days, mode, ok := s.readAIRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.advisor.Predict(r.Context(), days, mode)
	if err != nil {
		slog.ErrorContext(r.Context(), "Predict failed", "error", err, "mode", mode.String(), "days", days)
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}
	s.logAdvisorCall(r, applog.OpPredict, mode, res.Source, start)

	writeJSON(w, http.StatusOK, map[string]any{
		"prediction": float64(res.Payload.PredictedCents) / 100,
		"details":    res.Payload.Details,
		"source":     res.Source,
		"cached":     res.Cached,
	})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	days, mode, ok := s.readAIRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.advisor.Coach(r.Context(), days, mode)
	if err != nil {
		slog.ErrorContext(r.Context(), "Coach failed", "error", err, "mode", mode.String(), "days", days)
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}
	s.logAdvisorCall(r, applog.OpCoach, mode, res.Source, start)

	tips := res.Payload.Tips
	if tips == nil {
		tips = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coach":  tips,
		"source": res.Source,
		"cached": res.Cached,
	})
}

func (s *Server) handleRecurringScan(w http.ResponseWriter, r *http.Request) {
	days, mode, ok := s.readAIRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.advisor.ScanRecurring(r.Context(), days, mode)
	if err != nil {
		slog.ErrorContext(r.Context(), "Recurring scan failed", "error", err, "mode", mode.String(), "days", days)
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}
	s.logAdvisorCall(r, applog.OpScan, mode, res.Source, start)

	type item struct {
		Description  string  `json:"description"`
		Amount       float64 `json:"amount"`
		IntervalDays int     `json:"intervalDays"`
		Occurrences  int     `json:"occurrences"`
	}
	items := make([]item, 0, len(res.Payload.Items))
	for _, it := range res.Payload.Items {
		items = append(items, item{
			Description:  it.Description,
			Amount:       float64(it.AmountCents) / 100,
			IntervalDays: it.IntervalDays,
			Occurrences:  it.Occurrences,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"source": res.Source,
	})
}

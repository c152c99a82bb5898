package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
)

// memSession is an in-memory Session for tests.
type memSession struct {
	token   string
	user    *session.Profile
	cleared bool
}

func (m *memSession) Token() string { return m.token }
func (m *memSession) User() *session.Profile { return m.user }
func (m *memSession) SetSession(token string, user *session.Profile) {
	m.token, m.user = token, user
}
func (m *memSession) Clear() {
	m.token, m.user, m.cleared = "", nil, true
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(listResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{token: "tok-1"})
	if _, err := c.List(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("authorization header: got %q", gotAuth)
	}
}

func TestNoAuthHeaderWhenSignedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(listResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{})
	if _, err := c.List(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer srv.Close()

	sess := &memSession{token: "stale"}
	c := NewClient(srv.URL, sess)
	_, err := c.List(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !sess.cleared {
		t.Fatal("401 must clear the session")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "token expired" {
		t.Fatalf("server message preferred, got %q", apiErr.Message)
	}
}

func TestErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text, not json", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{})
	_, err := c.List(context.Background(), 10)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "Bad Gateway" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestTransportErrorNormalized(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", &memSession{}) // nothing listens here
	_, err := c.List(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestListCoercesLooseShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"id":"a","amount":12.34,"date":"2025-06-10","category":"Food"},
			{"id":"b","amount":"-50","createdAt":"2025-06-09T08:00:00Z"},
			{"id":"c","amount":"garbage"},
			{"id":"d"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{})
	txs, err := c.List(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("got %d transactions", len(txs))
	}
	if txs[0].Amount.Cents != 1234 || txs[0].Date.IsZero() {
		t.Fatalf("numeric amount/date: %+v", txs[0])
	}
	if txs[1].Amount.Cents != -5000 || txs[1].CreatedAt.IsZero() {
		t.Fatalf("string amount/createdAt: %+v", txs[1])
	}
	if txs[2].Amount.Cents != 0 || txs[3].Amount.Cents != 0 {
		t.Fatal("malformed and missing amounts must coerce to zero")
	}
}

func TestPredictRequestShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/predict" {
			t.Errorf("path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(predictResponse{Prediction: 420.55, Source: "gemini"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{})
	res, err := c.Predict(context.Background(), ai.Request{Days: 30, Provider: ai.ProviderGemini})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["days"] != float64(30) || got["provider"] != "gemini" {
		t.Fatalf("request body: %v", got)
	}
	if _, present := got["freeOnly"]; !present {
		t.Fatal("freeOnly must always be sent")
	}
	if res.Payload.PredictedCents != 42055 || res.Source != "gemini" {
		t.Fatalf("result: %+v", res)
	}
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(authResponse{
			Token: "fresh-token",
			User:  session.Profile{ID: "u1", Email: "ada@example.com"},
		})
	}))
	defer srv.Close()

	sess := &memSession{}
	c := NewClient(srv.URL, sess)
	user, err := c.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.token != "fresh-token" {
		t.Fatalf("token not stored: %q", sess.token)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("user: %+v", user)
	}
}

func TestScanRecurringConvertsDollars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"description":"Netflix","amount":15.99,"intervalDays":30,"occurrences":4}],"source":"heuristic"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memSession{})
	res, err := c.ScanRecurring(context.Background(), ai.Request{Days: 180, FreeOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Payload.Items) != 1 || res.Payload.Items[0].AmountCents != 1599 {
		t.Fatalf("items: %+v", res.Payload.Items)
	}
	if !res.Degraded() {
		t.Fatal("heuristic source should report degraded")
	}
}

package events

import (
	"testing"
	"time"
)

func TestNewRefreshMessage(t *testing.T) {
	msg := NewRefreshMessage(200)

	if msg.Count != 200 {
		t.Errorf("Count = %v, want 200", msg.Count)
	}
	if msg.Type != TypeRefresh {
		t.Errorf("Type = %q, want %q", msg.Type, TypeRefresh)
	}
	if msg.FetchedAt.IsZero() {
		t.Error("FetchedAt should not be zero")
	}
	if time.Since(msg.FetchedAt) > time.Second {
		t.Error("FetchedAt should be recent")
	}
}

func TestRefreshMessage_JSON(t *testing.T) {
	fetched := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := &RefreshMessage{Type: TypeRefresh, Count: 500, FetchedAt: fetched}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := RefreshMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("RefreshMessageFromJSON() error = %v", err)
	}

	if parsed.Count != msg.Count {
		t.Errorf("Parsed Count = %v, want %v", parsed.Count, msg.Count)
	}
	if !parsed.FetchedAt.Equal(msg.FetchedAt) {
		t.Errorf("Parsed FetchedAt = %v, want %v", parsed.FetchedAt, msg.FetchedAt)
	}
}

func TestRefreshMessage_InvalidJSON(t *testing.T) {
	_, err := RefreshMessageFromJSON([]byte(`{"count": "not_a_number"}`))
	if err == nil {
		t.Error("RefreshMessageFromJSON() should fail with invalid JSON")
	}
}

// A notification body must never decode as a refresh command: both travel
// over the same exchange and the worker maps a zero count to a full fetch.
func TestRefreshMessage_RejectsNotificationBody(t *testing.T) {
	note := &NotificationMessage{
		Type:      TypeNotification,
		ID:        "toast-1",
		Kind:      "info",
		Text:      "Refresh queued",
		Timestamp: time.Now(),
	}
	body, err := note.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	if _, err := RefreshMessageFromJSON(body); err == nil {
		t.Fatal("RefreshMessageFromJSON() accepted a notification body")
	}
}

func TestRefreshMessage_RejectsMissingType(t *testing.T) {
	if _, err := RefreshMessageFromJSON([]byte(`{"count": 50}`)); err == nil {
		t.Fatal("RefreshMessageFromJSON() accepted a body without a type")
	}
}

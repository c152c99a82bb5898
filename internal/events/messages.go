package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message type discriminators. Refresh commands and mirrored notifications
// travel over the same exchange, so every body carries its type and the
// refresh consumer rejects anything else.
const (
	TypeRefresh      = "refresh"
	TypeNotification = "notification"
)

// RefreshMessage asks the worker to re-fetch transactions from the server
// and rebuild the local mirror. Count carries the fetch size the gateway
// was configured with so the worker mirrors the same window.
type RefreshMessage struct {
	Type      string    `json:"type"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
}

func NewRefreshMessage(count int) *RefreshMessage {
	return &RefreshMessage{
		Type:      TypeRefresh,
		Count:     count,
		FetchedAt: time.Now(),
	}
}

func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != TypeRefresh {
		return nil, fmt.Errorf("not a refresh message: type %q", msg.Type)
	}
	return &msg, nil
}

// NotificationMessage mirrors a toast shown in the gateway so out-of-process
// listeners can observe user-facing events.
type NotificationMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

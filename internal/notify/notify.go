package notify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
)

const DefaultTTL = 4 * time.Second

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Toast is a short-lived user-facing notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sink receives a copy of every toast. Sink failures never affect the
// caller; the center only logs them.
type Sink interface {
	PublishNotification(ctx context.Context, msg *events.NotificationMessage) error
}

// Center holds active toasts and expires them after a TTL, the way a UI
// toast stack would. Dismiss cancels the timer early.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	sink   Sink
	active map[string]*entry
	closed bool
}

type entry struct {
	toast Toast
	timer *time.Timer
}

type Option func(*Center)

// WithTTL overrides the default auto-dismiss interval.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithSink mirrors toasts onto a bus.
func WithSink(s Sink) Option {
	return func(c *Center) { c.sink = s }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:    DefaultTTL,
		active: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push adds a toast and returns its id. The toast auto-dismisses after
// the center's TTL unless dismissed first.
func (c *Center) Push(ctx context.Context, kind Kind, text string) string {
	toast := Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Text:      text,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return toast.ID
	}
	e := &entry{toast: toast}
	e.timer = time.AfterFunc(c.ttl, func() {
		c.Dismiss(toast.ID)
	})
	c.active[toast.ID] = e
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		msg := &events.NotificationMessage{
			ID:        toast.ID,
			Kind:      string(toast.Kind),
			Text:      toast.Text,
			Timestamp: toast.CreatedAt,
		}
		if err := sink.PublishNotification(ctx, msg); err != nil {
			slog.WarnContext(ctx, "Failed to mirror notification", "error", err, "id", toast.ID)
		}
	}

	return toast.ID
}

// Dismiss removes a toast and cancels its expiry timer. Unknown ids are
// a no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.active[id]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(c.active, id)
}

// Active returns the live toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Toast, 0, len(c.active))
	for _, e := range c.active {
		out = append(out, e.toast)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close stops every timer and rejects further pushes.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.active {
		e.timer.Stop()
		delete(c.active, id)
	}
	c.closed = true
}

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
)

type recordingSink struct {
	msgs []*events.NotificationMessage
	err  error
}

func (s *recordingSink) PublishNotification(ctx context.Context, msg *events.NotificationMessage) error {
	s.msgs = append(s.msgs, msg)
	return s.err
}

func TestCenter_PushAndActive(t *testing.T) {
	c := NewCenter(WithTTL(time.Minute))
	defer c.Close()
	ctx := context.Background()

	id1 := c.Push(ctx, KindInfo, "first")
	id2 := c.Push(ctx, KindError, "second")

	if id1 == "" || id1 == id2 {
		t.Fatalf("ids should be unique and non-empty: %q %q", id1, id2)
	}

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("Active() = %d toasts, want 2", len(active))
	}
	if active[0].Text != "first" || active[1].Text != "second" {
		t.Errorf("order: %q, %q", active[0].Text, active[1].Text)
	}
	if active[1].Kind != KindError {
		t.Errorf("kind = %q", active[1].Kind)
	}
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter(WithTTL(time.Minute))
	defer c.Close()

	id := c.Push(context.Background(), KindInfo, "bye")
	c.Dismiss(id)
	c.Dismiss(id) // repeat is a no-op
	c.Dismiss("unknown")

	if got := len(c.Active()); got != 0 {
		t.Errorf("Active() = %d toasts after dismiss", got)
	}
}

func TestCenter_AutoExpiry(t *testing.T) {
	c := NewCenter(WithTTL(20 * time.Millisecond))
	defer c.Close()

	c.Push(context.Background(), KindSuccess, "fleeting")

	deadline := time.Now().Add(time.Second)
	for len(c.Active()) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("toast never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCenter_SinkReceivesCopy(t *testing.T) {
	sink := &recordingSink{}
	c := NewCenter(WithTTL(time.Minute), WithSink(sink))
	defer c.Close()

	id := c.Push(context.Background(), KindError, "boom")

	if len(sink.msgs) != 1 {
		t.Fatalf("sink got %d messages", len(sink.msgs))
	}
	if sink.msgs[0].ID != id || sink.msgs[0].Kind != "error" || sink.msgs[0].Text != "boom" {
		t.Errorf("sink message: %+v", sink.msgs[0])
	}
}

func TestCenter_SinkFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("bus down")}
	c := NewCenter(WithTTL(time.Minute), WithSink(sink))
	defer c.Close()

	id := c.Push(context.Background(), KindInfo, "still shown")

	if len(c.Active()) != 1 || c.Active()[0].ID != id {
		t.Error("toast should be active even when the sink fails")
	}
}

func TestCenter_ClosedRejectsPush(t *testing.T) {
	c := NewCenter(WithTTL(time.Minute))
	c.Push(context.Background(), KindInfo, "before")
	c.Close()

	c.Push(context.Background(), KindInfo, "after")
	if got := len(c.Active()); got != 0 {
		t.Errorf("Active() = %d after close", got)
	}
}

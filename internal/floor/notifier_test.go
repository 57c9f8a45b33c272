package floor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/tableside/pkg/event"
)

func TestEventNotifierPublishes(t *testing.T) {
	pub := NewMockPublisher()
	n := NewEventNotifier(pub, apt.NewNoopLogger())

	n.Notify(context.Background(), NotifySuccess, "Table 3 selected")

	msgs := pub.Topic(event.FloorNotificationsTopic)
	if len(msgs) != 1 {
		t.Fatalf("published %d notifications, want 1", len(msgs))
	}

	var evt event.NotificationEvent
	if err := json.Unmarshal(msgs[0].data, &evt); err != nil {
		t.Fatalf("cannot decode notification: %v", err)
	}
	if evt.Kind != string(NotifySuccess) || evt.Message != "Table 3 selected" {
		t.Errorf("notification = %+v", evt)
	}
}

func TestEventNotifierIgnoresPublishErrors(t *testing.T) {
	pub := NewMockPublisher()
	pub.PublishFunc = func(ctx context.Context, topic string, msg []byte) error {
		return errors.New("nats down")
	}
	n := NewEventNotifier(pub, nil)

	n.Notify(context.Background(), NotifyError, "boom")

	NewEventNotifier(nil, nil).Notify(context.Background(), NotifyError, "no publisher")
}

func TestNotifiersFanOut(t *testing.T) {
	a := NewMockNotifier()
	b := NewMockNotifier()
	ns := Notifiers{a, nil, b, NewLogNotifier(nil)}

	ns.Notify(context.Background(), NotifyError, "Incorrect password")

	for i, m := range []*MockNotifier{a, b} {
		last, ok := m.Last()
		if !ok || last.message != "Incorrect password" || last.kind != NotifyError {
			t.Errorf("notifier %d got %+v", i, last)
		}
	}
}

package floor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/appetiteclub/tableside/pkg/event"
)

// LogNotifier writes notifications to the service log.
type LogNotifier struct {
	logger apt.Logger
}

func NewLogNotifier(logger apt.Logger) *LogNotifier {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, kind NotificationKind, message string) {
	n.logger.Info("notification", "kind", string(kind), "message", message)
}

// EventNotifier mirrors notifications onto the floor notifications topic
// so that front-of-house displays can show them.
type EventNotifier struct {
	publisher events.Publisher
	logger    apt.Logger
	now       func() time.Time
}

func NewEventNotifier(publisher events.Publisher, logger apt.Logger) *EventNotifier {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &EventNotifier{publisher: publisher, logger: logger, now: time.Now}
}

func (n *EventNotifier) Notify(ctx context.Context, kind NotificationKind, message string) {
	if n.publisher == nil {
		return
	}

	data, err := json.Marshal(event.NotificationEvent{
		EventType:  event.EventNotification,
		OccurredAt: n.now(),
		Kind:       string(kind),
		Message:    message,
	})
	if err != nil {
		n.logger.Error("cannot marshal notification", "error", err)
		return
	}

	if err := n.publisher.Publish(ctx, event.FloorNotificationsTopic, data); err != nil {
		n.logger.Debug("cannot publish notification", "error", err)
	}
}

// Notifiers fans a notification out to every member.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, kind NotificationKind, message string) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, kind, message)
		}
	}
}

package floor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/pkg/event"
)

// KitchenDisplaySubscriber applies status advances sent by kitchen
// displays over NATS.
type KitchenDisplaySubscriber struct {
	subscriber events.Subscriber
	floor      *Floor
	logger     apt.Logger
}

func NewKitchenDisplaySubscriber(subscriber events.Subscriber, floor *Floor, logger apt.Logger) *KitchenDisplaySubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &KitchenDisplaySubscriber{
		subscriber: subscriber,
		floor:      floor,
		logger:     logger,
	}
}

func (s *KitchenDisplaySubscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Info("kitchen display subscriber disabled: no subscriber configured")
		return nil
	}

	if err := s.subscriber.Subscribe(ctx, event.KitchenAdvanceTopic, s.handleAdvance); err != nil {
		return fmt.Errorf("cannot subscribe to kitchen advances: %w", err)
	}

	s.logger.Info("kitchen display subscriber started", "topic", event.KitchenAdvanceTopic)
	return nil
}

func (s *KitchenDisplaySubscriber) handleAdvance(ctx context.Context, msg []byte) error {
	var req event.KitchenAdvanceRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return fmt.Errorf("cannot decode kitchen advance: %w", err)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", req.OrderID, err)
	}

	order, err := s.floor.AdvanceStatus(ctx, orderID, req.Status)
	if err != nil {
		return err
	}

	s.logger.Debug("kitchen advance applied", "order_id", order.ID.String(), "status", order.Status)
	return nil
}

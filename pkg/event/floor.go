package event

import "time"

const (
	// FloorOrdersTopic carries kitchen queue changes made on the floor.
	FloorOrdersTopic = "floor.orders"
	// FloorBillsTopic carries ledger changes.
	FloorBillsTopic = "floor.bills"
	// FloorNotificationsTopic mirrors user-facing notifications for displays.
	FloorNotificationsTopic = "floor.notifications"
	// KitchenAdvanceTopic receives status advances from kitchen displays.
	KitchenAdvanceTopic = "kitchen.orders.advance"

	EventKitchenOrderSubmitted     = "kitchen.order.submitted"
	EventKitchenOrderStatusChanged = "kitchen.order.status_changed"
	EventTableSettled              = "table.settled"
	EventBillDeleted               = "bill.deleted"
	EventLedgerPurged              = "ledger.purged"
	EventNotification              = "floor.notification"
)

type KitchenOrderLine struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

type KitchenOrderSubmittedEvent struct {
	EventType  string             `json:"event_type"`
	OccurredAt time.Time          `json:"occurred_at"`
	OrderID    string             `json:"order_id"`
	Table      int                `json:"table"`
	Status     string             `json:"status"`
	Lines      []KitchenOrderLine `json:"lines"`
	Total      int64              `json:"total"`
}

type KitchenOrderStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	Table          int       `json:"table"`
	NewStatus      string    `json:"new_status"`
	PreviousStatus string    `json:"previous_status"`
}

type TableSettledEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	BillID     string    `json:"bill_id"`
	Table      int       `json:"table"`
	OrderIDs   []string  `json:"order_ids"`
	GrandTotal int64     `json:"grand_total"`
}

type BillDeletedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	BillID     string    `json:"bill_id"`
	Table      int       `json:"table"`
	GrandTotal int64     `json:"grand_total"`
}

type LedgerPurgedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Removed    int       `json:"removed"`
}

type NotificationEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
}

// KitchenAdvanceRequest is sent by a kitchen display to move an order
// one step forward.
type KitchenAdvanceRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

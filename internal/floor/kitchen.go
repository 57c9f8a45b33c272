package floor

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/pkg/enums/orderstatus"
	"github.com/appetiteclub/tableside/pkg/event"
)

// KitchenOrder is one submitted order in the kitchen queue.
type KitchenOrder struct {
	ID        uuid.UUID  `json:"id" bson:"id"`
	Table     int        `json:"table" bson:"table"`
	Items     []MenuItem `json:"items" bson:"items"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
	Status    string     `json:"status" bson:"status"`
}

// KitchenOrderView adds the grouped lines and total used by displays.
type KitchenOrderView struct {
	KitchenOrder
	Lines []LineItem `json:"lines"`
	Total int64      `json:"total"`
}

func (o *KitchenOrder) Lines() []LineItem {
	return GroupItems(o.Items)
}

func (o *KitchenOrder) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}

func (o *KitchenOrder) View() KitchenOrderView {
	return KitchenOrderView{
		KitchenOrder: o.clone(),
		Lines:        o.Lines(),
		Total:        o.Total(),
	}
}

func (o *KitchenOrder) clone() KitchenOrder {
	c := *o
	c.Items = append([]MenuItem(nil), o.Items...)
	return c
}

// advance moves the order exactly one step forward to target.
func (o *KitchenOrder) advance(target string) error {
	current := orderstatus.ByName(o.Status)
	next := orderstatus.ByName(target)
	if current == nil || next == nil || !current.CanAdvanceTo(*next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, target)
	}
	o.Status = next.Code()
	return nil
}

func (o *KitchenOrder) submittedEvent() event.KitchenOrderSubmittedEvent {
	lines := o.Lines()
	evtLines := make([]event.KitchenOrderLine, 0, len(lines))
	for _, l := range lines {
		evtLines = append(evtLines, event.KitchenOrderLine{
			MenuItemID: l.ID,
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   l.Quantity,
		})
	}
	return event.KitchenOrderSubmittedEvent{
		EventType:  event.EventKitchenOrderSubmitted,
		OccurredAt: o.Timestamp,
		OrderID:    o.ID.String(),
		Table:      o.Table,
		Status:     o.Status,
		Lines:      evtLines,
		Total:      o.Total(),
	}
}

// AdvanceStatus moves an order to target, which must be the status right
// after its current one.
func (f *Floor) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target string) (KitchenOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.findOrderLocked(orderID)
	if order == nil {
		return KitchenOrder{}, f.fail(ctx, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID))
	}

	previous := order.Status
	if err := order.advance(target); err != nil {
		return KitchenOrder{}, f.fail(ctx, err)
	}

	f.persistLocked(ctx)
	f.publishStatusChange(ctx, order, previous)
	f.notify(ctx, NotifySuccess, "Order status updated to %s", order.Status)
	return order.clone(), nil
}

// MarkAllReadyAsServed serves every ready order of the table in one batch
// and returns how many were served.
func (f *Floor) MarkAllReadyAsServed(ctx context.Context, table int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return 0, f.fail(ctx, err)
	}

	ready := orderstatus.Statuses.Ready.Code()
	var batch []*KitchenOrder
	for _, o := range f.queue {
		if o.Table == table && o.Status == ready {
			batch = append(batch, o)
		}
	}
	if len(batch) == 0 {
		return 0, f.fail(ctx, fmt.Errorf("%w: table %d", ErrNoReadyOrders, table))
	}

	for _, o := range batch {
		o.Status = orderstatus.Statuses.Served.Code()
	}

	f.persistLocked(ctx)
	for _, o := range batch {
		f.publishStatusChange(ctx, o, ready)
	}
	f.notify(ctx, NotifySuccess, "Marked %d order(s) as served for Table %d", len(batch), table)
	return len(batch), nil
}

// OrdersForTable lists the table's queue entries, newest first.
func (f *Floor) OrdersForTable(table int) ([]KitchenOrderView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return nil, err
	}

	var orders []*KitchenOrder
	for _, o := range f.queue {
		if o.Table == table {
			orders = append(orders, o)
		}
	}
	return viewsNewestFirst(orders), nil
}

// KitchenOrders lists the queue filtered by status. The "all" filter and
// the empty filter return every entry.
func (f *Floor) KitchenOrders(filter string) ([]KitchenOrderView, error) {
	if filter != "" && filter != orderstatus.FilterAll && orderstatus.ByName(filter) == nil {
		return nil, fmt.Errorf("unknown status filter %q", filter)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var orders []*KitchenOrder
	for _, o := range f.queue {
		if filter == "" || filter == orderstatus.FilterAll || o.Status == filter {
			orders = append(orders, o)
		}
	}
	return viewsNewestFirst(orders), nil
}

// Order returns a single queue entry.
func (f *Floor) Order(orderID uuid.UUID) (KitchenOrderView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.findOrderLocked(orderID)
	if order == nil {
		return KitchenOrderView{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return order.View(), nil
}

func (f *Floor) findOrderLocked(id uuid.UUID) *KitchenOrder {
	for _, o := range f.queue {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (f *Floor) publishStatusChange(ctx context.Context, o *KitchenOrder, previous string) {
	f.publish(ctx, event.FloorOrdersTopic, event.KitchenOrderStatusChangedEvent{
		EventType:      event.EventKitchenOrderStatusChanged,
		OccurredAt:     f.now(),
		OrderID:        o.ID.String(),
		Table:          o.Table,
		NewStatus:      o.Status,
		PreviousStatus: previous,
	})
}

func viewsNewestFirst(orders []*KitchenOrder) []KitchenOrderView {
	sortNewestFirst(orders)
	views := make([]KitchenOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	return views
}

// sortNewestFirst orders by timestamp descending, then by id ascending so
// equal timestamps always render the same way.
func sortNewestFirst(orders []*KitchenOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return newerFirst(orders[i].Timestamp, orders[j].Timestamp, orders[i].ID, orders[j].ID)
	})
}

func newerFirst(ti, tj time.Time, idi, idj uuid.UUID) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return bytes.Compare(idi[:], idj[:]) < 0
}

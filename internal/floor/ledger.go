package floor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/pkg/event"
)

const PaymentPending = "pending"

// Bill is an archived settlement of one table.
type Bill struct {
	ID            uuid.UUID      `json:"id" bson:"id"`
	Table         int            `json:"table" bson:"table"`
	Timestamp     time.Time      `json:"timestamp" bson:"timestamp"`
	SourceOrders  []KitchenOrder `json:"source_orders" bson:"source_orders"`
	Items         []LineItem     `json:"items" bson:"items"`
	GrandTotal    int64          `json:"grand_total" bson:"grand_total"`
	PaymentStatus string         `json:"payment_status" bson:"payment_status"`
}

func (b *Bill) clone() Bill {
	c := *b
	c.SourceOrders = make([]KitchenOrder, 0, len(b.SourceOrders))
	for i := range b.SourceOrders {
		c.SourceOrders = append(c.SourceOrders, b.SourceOrders[i].clone())
	}
	c.Items = append([]LineItem(nil), b.Items...)
	return c
}

// ItemsTotal recomputes Σ price×quantity over the archived lines.
func (b *Bill) ItemsTotal() int64 {
	return LinesTotal(b.Items)
}

// Settlement is the staged preview of a table vacation.
type Settlement struct {
	Table      int            `json:"table"`
	Orders     []KitchenOrder `json:"orders"`
	Lines      []LineItem     `json:"lines"`
	GrandTotal int64          `json:"grand_total"`
	PreparedAt time.Time      `json:"prepared_at"`
}

// Vacate previews the bill for every queue entry of the table and stages
// it for confirmation. Drafts, queue and ledger are left untouched.
func (f *Floor) Vacate(ctx context.Context, table int) (Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return Settlement{}, f.fail(ctx, err)
	}

	var orders []KitchenOrder
	var items []MenuItem
	var grandTotal int64
	for _, o := range f.queue {
		if o.Table != table {
			continue
		}
		orders = append(orders, o.clone())
		for _, item := range o.Items {
			items = append(items, item)
			grandTotal += item.Price
		}
	}
	if len(orders) == 0 {
		return Settlement{}, f.fail(ctx, fmt.Errorf("%w: table %d", ErrNoOrdersForTable, table))
	}

	preview := &Settlement{
		Table:      table,
		Orders:     orders,
		Lines:      GroupItems(items),
		GrandTotal: grandTotal,
		PreparedAt: f.now(),
	}
	f.pending[table] = preview

	f.logger.Info("settlement staged", "table", table, "orders", len(orders), "grand_total", grandTotal)
	return preview.copy(), nil
}

func (s *Settlement) copy() Settlement {
	c := *s
	c.Orders = make([]KitchenOrder, 0, len(s.Orders))
	for i := range s.Orders {
		c.Orders = append(c.Orders, s.Orders[i].clone())
	}
	c.Lines = append([]LineItem(nil), s.Lines...)
	return c
}

// PendingSettlement returns the staged preview for the table, if any.
func (f *Floor) PendingSettlement(table int) (Settlement, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.pending[table]
	if !ok {
		return Settlement{}, false
	}
	return s.copy(), true
}

// ConfirmVacate archives the staged preview as a bill and frees the table.
// The table's queue entries live on only inside the bill.
func (f *Floor) ConfirmVacate(ctx context.Context, table int) (Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged, ok := f.pending[table]
	if !ok {
		return Bill{}, f.fail(ctx, ErrNoPendingSettlement)
	}

	live := f.tableOrdersLocked(table)
	if !sameOrders(staged.Orders, live) {
		delete(f.pending, table)
		return Bill{}, f.fail(ctx, fmt.Errorf("%w: table %d", ErrStaleSettlement, table))
	}

	sources := make([]KitchenOrder, 0, len(live))
	for _, o := range live {
		sources = append(sources, o.clone())
	}

	bill := &Bill{
		ID:            f.newID(),
		Table:         table,
		Timestamp:     f.now(),
		SourceOrders:  sources,
		Items:         append([]LineItem(nil), staged.Lines...),
		GrandTotal:    staged.GrandTotal,
		PaymentStatus: PaymentPending,
	}
	f.bills = append(f.bills, bill)

	f.occupancy[table] = OccupancyActive
	f.drafts[table] = []MenuItem{}

	remaining := f.queue[:0]
	for _, o := range f.queue {
		if o.Table != table {
			remaining = append(remaining, o)
		}
	}
	f.queue = remaining

	if f.selected == table {
		f.selected = 0
	}
	delete(f.pending, table)

	f.persistLocked(ctx)
	f.publish(ctx, event.FloorBillsTopic, bill.settledEvent())
	f.logger.Info("table vacated", "table", table, "bill_id", bill.ID.String(), "grand_total", bill.GrandTotal)
	f.notify(ctx, NotifySuccess, "Table %d vacated. Bill generated successfully!", table)
	return bill.clone(), nil
}

// CancelVacate drops the staged preview for the table.
func (f *Floor) CancelVacate(table int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, table)
}

func (f *Floor) tableOrdersLocked(table int) []*KitchenOrder {
	var orders []*KitchenOrder
	for _, o := range f.queue {
		if o.Table == table {
			orders = append(orders, o)
		}
	}
	return orders
}

func sameOrders(staged []KitchenOrder, live []*KitchenOrder) bool {
	if len(staged) != len(live) {
		return false
	}
	ids := make(map[uuid.UUID]struct{}, len(staged))
	for _, o := range staged {
		ids[o.ID] = struct{}{}
	}
	for _, o := range live {
		if _, ok := ids[o.ID]; !ok {
			return false
		}
	}
	return true
}

func (b *Bill) settledEvent() event.TableSettledEvent {
	ids := make([]string, 0, len(b.SourceOrders))
	for _, o := range b.SourceOrders {
		ids = append(ids, o.ID.String())
	}
	return event.TableSettledEvent{
		EventType:  event.EventTableSettled,
		OccurredAt: b.Timestamp,
		BillID:     b.ID.String(),
		Table:      b.Table,
		OrderIDs:   ids,
		GrandTotal: b.GrandTotal,
	}
}

func (f *Floor) authorized(ctx context.Context, credential string) bool {
	return f.authorizer != nil && f.authorizer.Authorize(ctx, credential)
}

// DeleteBill removes one bill from the ledger. Requires admin approval.
func (f *Floor) DeleteBill(ctx context.Context, credential string, billID uuid.UUID) (Bill, error) {
	if !f.authorized(ctx, credential) {
		f.notify(ctx, NotifyError, "Incorrect password")
		return Bill{}, ErrAuthorizationDenied
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := -1
	for i, b := range f.bills {
		if b.ID == billID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Bill{}, f.fail(ctx, fmt.Errorf("%w: %s", ErrBillNotFound, billID))
	}

	removed := f.bills[idx]
	f.bills = append(f.bills[:idx], f.bills[idx+1:]...)

	f.persistLocked(ctx)
	f.publish(ctx, event.FloorBillsTopic, event.BillDeletedEvent{
		EventType:  event.EventBillDeleted,
		OccurredAt: f.now(),
		BillID:     removed.ID.String(),
		Table:      removed.Table,
		GrandTotal: removed.GrandTotal,
	})
	f.logger.Info("bill deleted", "bill_id", removed.ID.String(), "table", removed.Table)
	f.notify(ctx, NotifySuccess, "Bill deleted successfully")
	return removed.clone(), nil
}

// PurgeAllBills empties the ledger. Requires admin approval and an
// explicit confirmation from the caller; it cannot be undone.
func (f *Floor) PurgeAllBills(ctx context.Context, credential string, confirmed bool) (int, error) {
	if !f.authorized(ctx, credential) {
		f.notify(ctx, NotifyError, "Incorrect password")
		return 0, ErrAuthorizationDenied
	}
	if !confirmed {
		return 0, ErrConfirmationRequired
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	removed := len(f.bills)
	f.bills = nil

	f.persistLocked(ctx)
	f.publish(ctx, event.FloorBillsTopic, event.LedgerPurgedEvent{
		EventType:  event.EventLedgerPurged,
		OccurredAt: f.now(),
		Removed:    removed,
	})
	f.logger.Info("ledger purged", "removed", removed)
	f.notify(ctx, NotifySuccess, "All billing data cleared successfully")
	return removed, nil
}

func (f *Floor) TotalRevenue() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int64
	for _, b := range f.bills {
		total += b.GrandTotal
	}
	return total
}

func (f *Floor) BillCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bills)
}

// LedgerBills returns every bill, newest first.
func (f *Floor) LedgerBills() []Bill {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]Bill, 0, len(f.bills))
	for _, b := range f.bills {
		result = append(result, b.clone())
	}
	SortBillsNewestFirst(result)
	return result
}

func (f *Floor) Bill(billID uuid.UUID) (Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bills {
		if b.ID == billID {
			return b.clone(), nil
		}
	}
	return Bill{}, fmt.Errorf("%w: %s", ErrBillNotFound, billID)
}

func SortBillsNewestFirst(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return newerFirst(bills[i].Timestamp, bills[j].Timestamp, bills[i].ID, bills[j].ID)
	})
}

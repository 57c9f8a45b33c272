package floor

import (
	"context"
	"fmt"

	"github.com/appetiteclub/tableside/pkg/enums/orderstatus"
	"github.com/appetiteclub/tableside/pkg/event"
)

// DraftView is the grouped, read-only view of a table's unsent items.
type DraftView struct {
	Table int        `json:"table"`
	Lines []LineItem `json:"lines"`
	Count int        `json:"count"`
	Total int64      `json:"total"`
}

// SelectTable makes table the active context and revives it if it was
// marked vacated.
func (f *Floor) SelectTable(ctx context.Context, table int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.validTable(table) {
		return f.fail(ctx, fmt.Errorf("%w: %d", ErrInvalidTable, table))
	}

	if f.occupancy[table] == OccupancyVacated {
		f.occupancy[table] = OccupancyActive
	}
	f.selected = table
	if _, ok := f.drafts[table]; !ok {
		f.drafts[table] = []MenuItem{}
	}

	f.persistLocked(ctx)
	f.notify(ctx, NotifySuccess, "Table %d selected", table)
	return nil
}

// Deselect clears the active table.
func (f *Floor) Deselect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = 0
}

// CurrentTable returns the active table, if any.
func (f *Floor) CurrentTable() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, f.selected != 0
}

func (f *Floor) AddItem(ctx context.Context, table int, menuItemID int) (MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return MenuItem{}, f.fail(ctx, err)
	}

	item, ok := f.catalog.Get(menuItemID)
	if !ok {
		return MenuItem{}, f.fail(ctx, fmt.Errorf("%w: %d", ErrMenuItemNotFound, menuItemID))
	}

	f.drafts[table] = append(f.drafts[table], item)

	f.persistLocked(ctx)
	f.notify(ctx, NotifySuccess, "%s added", item.Name)
	return item, nil
}

func (f *Floor) ClearDraft(ctx context.Context, table int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return f.fail(ctx, err)
	}

	f.drafts[table] = []MenuItem{}

	f.persistLocked(ctx)
	f.notify(ctx, NotifySuccess, "Order cleared")
	return nil
}

// Submit promotes the table's draft into a new pending kitchen order and
// empties the draft. Items are copied, so later menu changes do not reach
// the order.
func (f *Floor) Submit(ctx context.Context, table int) (KitchenOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return KitchenOrder{}, f.fail(ctx, err)
	}

	draft := f.drafts[table]
	if len(draft) == 0 {
		return KitchenOrder{}, f.fail(ctx, ErrEmptyDraft)
	}

	order := &KitchenOrder{
		ID:        f.newID(),
		Table:     table,
		Items:     append([]MenuItem(nil), draft...),
		Timestamp: f.now(),
		Status:    orderstatus.Statuses.Pending.Code(),
	}
	f.queue = append(f.queue, order)
	f.drafts[table] = []MenuItem{}

	f.persistLocked(ctx)
	f.publish(ctx, event.FloorOrdersTopic, order.submittedEvent())
	f.logger.Info("order sent to kitchen", "order_id", order.ID.String(), "table", table, "items", len(order.Items))
	f.notify(ctx, NotifySuccess, "Order sent to kitchen for Table %d", table)
	return order.clone(), nil
}

// Draft returns the grouped view of the table's unsent items.
func (f *Floor) Draft(table int) (DraftView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return DraftView{}, err
	}

	items := f.drafts[table]
	lines := GroupItems(items)
	return DraftView{
		Table: table,
		Lines: lines,
		Count: len(items),
		Total: LinesTotal(lines),
	}, nil
}

package floor

import (
	"context"

	"github.com/appetiteclub/tableside/pkg/enums/orderstatus"
)

// TableSummary is the per-table view used for the table grid.
type TableSummary struct {
	Number           int    `json:"number"`
	Occupancy        string `json:"occupancy"`
	Selected         bool   `json:"selected"`
	DraftCount       int    `json:"draft_count"`
	ActiveOrderCount int    `json:"active_order_count"`
	CanMarkServed    bool   `json:"can_mark_served"`
	CanVacate        bool   `json:"can_vacate"`
}

// Occupancy reports the table's marker. Tables without a marker are active.
func (f *Floor) Occupancy(table int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkTable(table); err != nil {
		return "", err
	}
	return f.occupancyLocked(table), nil
}

func (f *Floor) occupancyLocked(table int) string {
	if occ, ok := f.occupancy[table]; ok {
		return occ
	}
	return OccupancyActive
}

// ActiveOrderCount counts the table's queue entries that are not served.
func (f *Floor) ActiveOrderCount(table int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeOrderCountLocked(table)
}

func (f *Floor) activeOrderCountLocked(table int) int {
	served := orderstatus.Statuses.Served.Code()
	count := 0
	for _, o := range f.queue {
		if o.Table == table && o.Status != served {
			count++
		}
	}
	return count
}

func (f *Floor) CanMarkServed(table int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canMarkServedLocked(table)
}

func (f *Floor) canMarkServedLocked(table int) bool {
	ready := orderstatus.Statuses.Ready.Code()
	for _, o := range f.queue {
		if o.Table == table && o.Status == ready {
			return true
		}
	}
	return false
}

func (f *Floor) CanVacate(table int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasOrdersLocked(table)
}

func (f *Floor) hasOrdersLocked(table int) bool {
	for _, o := range f.queue {
		if o.Table == table {
			return true
		}
	}
	return false
}

// Tables summarises every configured table in ascending order.
func (f *Floor) Tables() []TableSummary {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]TableSummary, 0, f.tableCount)
	for n := 1; n <= f.tableCount; n++ {
		result = append(result, TableSummary{
			Number:           n,
			Occupancy:        f.occupancyLocked(n),
			Selected:         f.selected == n,
			DraftCount:       len(f.drafts[n]),
			ActiveOrderCount: f.activeOrderCountLocked(n),
			CanMarkServed:    f.canMarkServedLocked(n),
			CanVacate:        f.hasOrdersLocked(n),
		})
	}
	return result
}

// ResetOccupancy drops every occupancy marker and returns how many were
// set.
func (f *Floor) ResetOccupancy(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	cleared := len(f.occupancy)
	f.occupancy = make(map[int]string)

	f.persistLocked(ctx)
	f.notify(ctx, NotifySuccess, "All table statuses cleared")
	return cleared
}

package floor

import (
	"fmt"
	"sort"
	"time"
)

// TableBills is one table's share of a report.
type TableBills struct {
	Table    int    `json:"table"`
	Bills    []Bill `json:"bills"`
	Subtotal int64  `json:"subtotal"`
}

type DailyReport struct {
	Date       string       `json:"date"`
	Groups     []TableBills `json:"groups"`
	BillCount  int          `json:"bill_count"`
	GrandTotal int64        `json:"grand_total"`
}

// BillsInRange keeps the bills whose timestamp falls in [start, end].
func BillsInRange(bills []Bill, start, end time.Time) []Bill {
	var result []Bill
	for _, b := range bills {
		if b.Timestamp.Before(start) || b.Timestamp.After(end) {
			continue
		}
		result = append(result, b)
	}
	return result
}

// GroupBillsByTable buckets bills per table, tables ascending. Bills keep
// their incoming order inside each bucket. Subtotals are Σ price×quantity.
func GroupBillsByTable(bills []Bill) []TableBills {
	index := make(map[int]int)
	var groups []TableBills
	for _, b := range bills {
		i, ok := index[b.Table]
		if !ok {
			i = len(groups)
			index[b.Table] = i
			groups = append(groups, TableBills{Table: b.Table})
		}
		groups[i].Bills = append(groups[i].Bills, b)
		groups[i].Subtotal += b.ItemsTotal()
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Table < groups[j].Table })
	return groups
}

// DayBounds returns the first and last instant of date's calendar day in
// date's location.
func DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), date.Location())
	return start, end
}

// BuildDailyReport summarises the bills settled on date's calendar day.
func BuildDailyReport(bills []Bill, date time.Time) (DailyReport, error) {
	start, end := DayBounds(date)
	day := BillsInRange(bills, start, end)
	if len(day) == 0 {
		return DailyReport{}, fmt.Errorf("%w: %s", ErrNoBillsForDate, start.Format(time.DateOnly))
	}

	SortBillsNewestFirst(day)
	groups := GroupBillsByTable(day)

	var grandTotal int64
	for _, g := range groups {
		grandTotal += g.Subtotal
	}

	return DailyReport{
		Date:       start.Format(time.DateOnly),
		Groups:     groups,
		BillCount:  len(day),
		GrandTotal: grandTotal,
	}, nil
}

// DailyReport summarises the ledger for one calendar day.
func (f *Floor) DailyReport(date time.Time) (DailyReport, error) {
	return BuildDailyReport(f.LedgerBills(), date)
}

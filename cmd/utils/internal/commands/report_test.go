package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/internal/floor"
)

func TestRenderDailyReport(t *testing.T) {
	ts := time.Date(2026, 10, 16, 19, 30, 0, 0, time.Local)
	wings := floor.MenuItem{ID: 1, Name: "Chicken Wings", Price: 180, Category: "starters"}
	coke := floor.MenuItem{ID: 9, Name: "Coke", Price: 60, Category: "drinks"}

	bills := []floor.Bill{
		{
			ID:         uuid.MustParse("11111111-0000-0000-0000-000000000000"),
			Table:      3,
			Timestamp:  ts,
			Items:      []floor.LineItem{{MenuItem: wings, Quantity: 2}, {MenuItem: coke, Quantity: 1}},
			GrandTotal: 420,
		},
		{
			ID:         uuid.MustParse("22222222-0000-0000-0000-000000000000"),
			Table:      1,
			Timestamp:  ts.Add(time.Hour),
			Items:      []floor.LineItem{{MenuItem: coke, Quantity: 2}},
			GrandTotal: 120,
		},
	}

	report, err := floor.BuildDailyReport(bills, ts)
	if err != nil {
		t.Fatalf("BuildDailyReport() error = %v", err)
	}

	var out bytes.Buffer
	if err := RenderDailyReport(&out, report); err != nil {
		t.Fatalf("RenderDailyReport() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Daily report 2026-10-16",
		"11111111",
		"22222222",
		"subtotal",
		"2 bill(s), grand total ₹540",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report output missing %q:\n%s", want, text)
		}
	}

	if strings.Index(text, "22222222") > strings.Index(text, "11111111") {
		t.Error("table 1 should be listed before table 3")
	}
}

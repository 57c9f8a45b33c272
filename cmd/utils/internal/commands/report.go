package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/tableside/internal/floor"
	"github.com/appetiteclub/tableside/internal/mongo"
)

// Report prints the daily sales report for date (YYYY-MM-DD) from the
// stored floor snapshot.
func Report(ctx context.Context, out io.Writer, rawDate string, config *apt.Config, logger apt.Logger) error {
	date, err := time.ParseInLocation(time.DateOnly, rawDate, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", rawDate, err)
	}

	base := mongo.NewBaseRepo(config, logger)
	if err := base.Start(ctx); err != nil {
		return err
	}
	defer base.Stop(ctx)

	snap, err := mongo.NewSnapshotRepo(base.GetDatabase()).Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return errors.New("no floor snapshot stored")
	}

	report, err := floor.BuildDailyReport(snap.Bills, date)
	if err != nil {
		return err
	}

	return RenderDailyReport(out, report)
}

// RenderDailyReport writes the report as a plain text table.
func RenderDailyReport(out io.Writer, report floor.DailyReport) error {
	fmt.Fprintf(out, "Daily report %s\n\n", report.Date)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tTIME\tBILL\tITEMS\tTOTAL")
	for _, g := range report.Groups {
		for _, b := range g.Bills {
			items := 0
			for _, l := range b.Items {
				items += l.Quantity
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s%d\n",
				g.Table, b.Timestamp.Format("15:04"), b.ID.String()[:8], items, floor.CurrencySymbol, b.ItemsTotal())
		}
		fmt.Fprintf(tw, "\t\t\tsubtotal\t%s%d\n", floor.CurrencySymbol, g.Subtotal)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("cannot render report: %w", err)
	}

	_, err := fmt.Fprintf(out, "\n%d bill(s), grand total %s%d\n", report.BillCount, floor.CurrencySymbol, report.GrandTotal)
	return err
}

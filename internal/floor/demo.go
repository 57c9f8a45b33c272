package floor

import (
	"context"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/tableside/pkg/enums/orderstatus"
)

const floorDemoSeedApplication = "floor_demo"

type demoOrder struct {
	table  int
	items  []int
	status string
}

var demoOrders = []demoOrder{
	{table: 2, items: []int{1, 1, 9}, status: orderstatus.Statuses.Ready.Code()},
	{table: 2, items: []int{5, 7, 11}, status: orderstatus.Statuses.Preparing.Code()},
	{table: 4, items: []int{3, 8, 12}, status: orderstatus.Statuses.Pending.Code()},
	{table: 6, items: []int{6, 10, 15}, status: orderstatus.Statuses.Served.Code()},
}

// ApplyDemoSeeds fills a few tables with kitchen orders in various states.
func ApplyDemoSeeds(ctx context.Context, floor *Floor, db *mongo.Database, logger apt.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}
	if floor == nil {
		return errors.New("floor is required for demo seeding")
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying demo floor seeds")
	if err := seed.Apply(ctx, tracker, buildDemoSeeds(floor, logger), floorDemoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo floor seeds applied successfully")
	return nil
}

func buildDemoSeeds(floor *Floor, logger apt.Logger) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-10-01_demo_floor_orders_v1",
			Description: "Create demo kitchen orders on tables 2, 4 and 6",
			Run: func(ctx context.Context) error {
				return seedDemoOrders(ctx, floor, logger)
			},
		},
	}
}

func seedDemoOrders(ctx context.Context, floor *Floor, logger apt.Logger) error {
	for _, d := range demoOrders {
		if err := floor.SelectTable(ctx, d.table); err != nil {
			return fmt.Errorf("select demo table %d: %w", d.table, err)
		}
		for _, id := range d.items {
			if _, err := floor.AddItem(ctx, d.table, id); err != nil {
				return fmt.Errorf("add demo item %d: %w", id, err)
			}
		}

		order, err := floor.Submit(ctx, d.table)
		if err != nil {
			return fmt.Errorf("submit demo order for table %d: %w", d.table, err)
		}

		for order.Status != d.status {
			current := orderstatus.ByName(order.Status)
			next, ok := current.Next()
			if !ok {
				break
			}
			order, err = floor.AdvanceStatus(ctx, order.ID, next.Code())
			if err != nil {
				return fmt.Errorf("advance demo order: %w", err)
			}
		}

		logger.Debug("demo order created", "table", d.table, "order_id", order.ID.String(), "status", order.Status)
	}

	floor.Deselect()
	return nil
}

// DemoSeedingFunc returns a lifecycle hook that seeds in the background.
func DemoSeedingFunc(seedCtx context.Context, floor *Floor, db *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting demo floor seeding in background")
		go func() {
			if err := ApplyDemoSeeds(seedCtx, floor, db, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Demo floor seeds failed: %v", err)
			} else if err == nil {
				logger.Info("Demo floor seeding completed successfully")
			}
		}()
		return nil
	}
}

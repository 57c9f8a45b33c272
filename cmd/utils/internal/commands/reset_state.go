package commands

import (
	"context"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/tableside/internal/mongo"
)

// ResetState deletes the stored floor snapshot. Drafts, kitchen queue and
// ledger are all lost; the next service start begins empty.
func ResetState(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Infof("This will delete the stored floor state, including every bill")

	base := mongo.NewBaseRepo(config, logger)
	if err := base.Start(ctx); err != nil {
		return err
	}
	defer base.Stop(ctx)

	removed, err := mongo.NewSnapshotRepo(base.GetDatabase()).Clear(ctx)
	if err != nil {
		return err
	}

	if !removed {
		logger.Info("No floor state stored, nothing to reset")
		return nil
	}
	logger.Info("Floor state deleted")
	return nil
}

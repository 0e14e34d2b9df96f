package tasks

import (
	"context"
	"fmt"
	"time"
)

// newQueryLogMaintenanceTask creates the scheduled task that prunes query log
// records past the configured retention period and compacts the database.
func newQueryLogMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "query_log_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting query log maintenance task...")
		startTime := time.Now()

		cutoff := time.Now().UTC().AddDate(0, 0, -deps.Config.Database.RetentionDays)
		pruned, err := deps.Store.PruneQueries(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Query log pruning failed", "error", err)
			return fmt.Errorf("query log pruning failed: %w", err)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err)
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Query log maintenance task completed",
			"pruned", pruned, "cutoff", cutoff, "duration", time.Since(startTime))
		return nil
	}
}

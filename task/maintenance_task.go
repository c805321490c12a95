package task

import (
	"log/slog"

	"github.com/egubrno/svr-dashboard-go/cache"
)

// NewMaintenanceTask sweeps expired dataset entries out of the cache.
// Lookups already ignore stale entries; this just returns the memory.
func NewMaintenanceTask(logger *slog.Logger, c *cache.Cache) func() {
	return func() {
		logger.Debug("running maintenance task...")
		removed := c.Purge()
		if removed > 0 {
			logger.Info("purged expired cache entries", slog.Int("removed", removed))
		}
	}
}

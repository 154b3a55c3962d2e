// Package cleanup provides the background worker that evicts idle workspaces
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
)

// Worker handles background workspace cleanup
type Worker struct {
	store  *workspaces.Store
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(store *workspaces.Store, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Workspace cleanup worker started",
		"interval", w.config.CleanupInterval, "idleTTL", w.config.WorkspaceIdleTTL)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Workspace cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce evicts every workspace idle for longer than the configured TTL and
// returns the number evicted
func (w *Worker) RunOnce() int {
	start := time.Now()
	evicted := w.store.EvictIdle(w.config.WorkspaceIdleTTL)

	if len(evicted) > 0 {
		w.logger.Cache().Info("Evicted idle workspaces",
			"count", len(evicted), "remaining", w.store.Len(), "duration", time.Since(start))
		for _, id := range evicted {
			w.logger.Cache().Debug("Workspace evicted", "workspaceId", id)
		}
	} else {
		w.logger.Cache().Debug("Workspace cleanup found nothing to evict", "open", w.store.Len())
	}
	return len(evicted)
}

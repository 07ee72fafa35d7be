package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// cleanupInterval is how often the change tracker sweeps idle entries.
const cleanupInterval = 10 * time.Minute

// Watcher feeds directory change events into the engine.
type Watcher struct {
	engine *Engine
	dir    string
	log    *zap.Logger
}

// NewWatcher creates a watcher for the configured directory.
func NewWatcher(engine *Engine, dir string, log *zap.Logger) *Watcher {
	return &Watcher{engine: engine, dir: dir, log: log}
}

// Run watches the directory until the context is canceled. Write and
// create events go to the engine; everything else is ignored.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("watching directory", zap.String("dir", w.dir))

	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			w.engine.Stop()
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.engine.HandleEvent(ctx, event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))
		case <-cleanup.C:
			if n := w.engine.Tracker().Cleanup(); n > 0 {
				w.log.Debug("tracker cleanup", zap.Int("evicted", n))
			}
		}
	}
}

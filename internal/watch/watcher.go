// Package watch keeps a directory tree's sites up to date: filesystem events
// trigger debounced re-indexing of changed assets, and a periodic full rescan
// catches anything the event stream dropped.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/assetindex/internal/config"
	"git.home.luguber.info/inful/assetindex/internal/indexer"
	"git.home.luguber.info/inful/assetindex/internal/logfields"
	"git.home.luguber.info/inful/assetindex/internal/util/sets"
)

// Watcher re-indexes assets under a root directory as they change.
type Watcher struct {
	root       string
	indexer    *indexer.Indexer
	extensions sets.Set[string]
	debounce   time.Duration
	rescan     time.Duration

	fsw       *fsnotify.Watcher
	scheduler gocron.Scheduler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over root. The indexer should be configured with a
// catalog and incremental mode so rescans stay cheap.
func New(root string, ix *indexer.Indexer, cfg *config.Settings) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Watcher{
		root:       absRoot,
		indexer:    ix,
		extensions: cfg.ExtensionSet(),
		debounce:   cfg.Watch.Debounce,
		rescan:     cfg.Watch.RescanInterval,
		fsw:        fsw,
		scheduler:  scheduler,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Start performs an initial full index, registers watches, and blocks until
// ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.runJob("initial index", func() error { return w.indexer.Index(w.root) })

	if err := w.addWatches(w.root); err != nil {
		return err
	}

	if _, err := w.scheduler.NewJob(
		gocron.DurationJob(w.rescan),
		gocron.NewTask(func() {
			w.runJob("periodic rescan", func() error { return w.indexer.Index(w.root) })
		}),
	); err != nil {
		return fmt.Errorf("schedule rescan job: %w", err)
	}
	w.scheduler.Start()

	slog.Info("Watching for changes", logfields.Dir(w.root), slog.Duration("rescan_interval", w.rescan))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Stop shuts down the scheduler and the filesystem watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()

	if err := w.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return w.fsw.Close()
}

// addWatches registers root and its subdirectories, skipping generated site
// trees: a directory whose sibling shares its stem with a recognized
// extension is output, not input.
func (w *Watcher) addWatches(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.isGenerated(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) isGenerated(dir string) bool {
	for ext := range w.extensions {
		if _, err := os.Stat(dir + "." + ext); err == nil {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	// New directories need a watch of their own (unless generated).
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.isGenerated(event.Name) {
			if err := w.fsw.Add(event.Name); err != nil {
				slog.Warn("Cannot watch new directory", logfields.Dir(event.Name), logfields.Error(err))
			}
		}
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(event.Name), ".")
	if !w.extensions.Has(ext) {
		return
	}
	w.scheduleReindex(event.Name)
}

// scheduleReindex debounces rapid event bursts per path.
func (w *Watcher) scheduleReindex(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.runJob("change", func() error { return w.indexer.IndexFile(path) })
	})
}

// runJob runs one indexing job with a correlating ID in every log line.
func (w *Watcher) runJob(trigger string, fn func() error) {
	jobID := uuid.NewString()
	slog.Info("Index job started", logfields.JobID(jobID), slog.String("trigger", trigger))
	start := time.Now()
	if err := fn(); err != nil {
		slog.Error("Index job failed", logfields.JobID(jobID), logfields.Error(err))
		return
	}
	slog.Info("Index job finished", logfields.JobID(jobID), slog.Duration("duration", time.Since(start)))
}

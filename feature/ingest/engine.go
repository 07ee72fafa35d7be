package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"inventory-sync/core/codec"
	"inventory-sync/core/storage"
	"inventory-sync/feature/ingest/mapper"
	"inventory-sync/feature/ingest/tracker"
	"inventory-sync/feature/inventory"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Report summarizes one file-processing pass.
type Report struct {
	File     string        `json:"file"`
	Skipped  string        `json:"skipped,omitempty"`
	Rows     int           `json:"rows"`
	Ready    int           `json:"ready"`
	Synced   int           `json:"synced"`
	Failed   int           `json:"failed"`
	Rejected []RowError    `json:"rejected,omitempty"`
	Findings []Finding     `json:"findings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Engine runs the ingestion pipeline for spreadsheet files: change
// gate, debounce, lock wait, parse, map, validate, reconcile, commit.
// All mutable state (debounce timers, in-flight set, tracker, mapping
// cache) is owned by the instance, so independent engines do not
// interfere.
type Engine struct {
	cfg      Config
	tracker  *tracker.Tracker
	resolver *mapper.Resolver
	codec    codec.Codec
	store    *inventory.Store
	sync     *Synchronizer
	log      *zap.Logger

	archive       storage.Client
	archiveBucket string

	mu         sync.Mutex
	timers     map[string]*time.Timer
	processing map[string]bool
}

// NewEngine assembles the pipeline around the given collaborators.
func NewEngine(cfg Config, tr *tracker.Tracker, resolver *mapper.Resolver, cd codec.Codec, store *inventory.Store, log *zap.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		tracker:    tr,
		resolver:   resolver,
		codec:      cd,
		store:      store,
		sync:       NewSynchronizer(store, log),
		log:        log,
		timers:     make(map[string]*time.Timer),
		processing: make(map[string]bool),
	}
}

// WithArchive enables uploading processed files to the given bucket.
func (e *Engine) WithArchive(client storage.Client, bucket string) *Engine {
	e.archive = client
	e.archiveBucket = bucket
	return e
}

// Tracker exposes the change tracker, for status reporting.
func (e *Engine) Tracker() *tracker.Tracker {
	return e.tracker
}

// ArchivedCount counts the spreadsheets in the archive bucket.
// Returns -1 when archiving is disabled.
func (e *Engine) ArchivedCount(ctx context.Context) int {
	if e.archive == nil {
		return -1
	}
	n := 0
	for range e.archive.ListObjects(ctx, e.archiveBucket, minio.ListObjectsOptions{
		Prefix:    "archive/",
		Recursive: true,
	}) {
		n++
	}
	return n
}

// HandleEvent registers a file-change event. Events for files that are
// not spreadsheets, or are hidden/temporary, are ignored. Repeated
// events for the same path reset its debounce timer so rapid
// successive writes coalesce into one pass.
func (e *Engine) HandleEvent(ctx context.Context, path string) {
	base := filepath.Base(path)
	if !codec.IsSpreadsheet(path) || codec.IsHiddenOrTemp(base) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.timers[path]; ok {
		t.Stop()
	}
	e.timers[path] = time.AfterFunc(e.cfg.Debounce(), func() {
		e.mu.Lock()
		delete(e.timers, path)
		e.mu.Unlock()
		if _, err := e.Process(ctx, path); err != nil {
			e.log.Error("processing failed", zap.String("file", base), zap.Error(err))
		}
	})
	e.log.Debug("change event debounced", zap.String("file", base))
}

// Stop cancels all pending debounce timers. In-flight passes run to
// completion.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for path, t := range e.timers {
		t.Stop()
		delete(e.timers, path)
	}
}

// Process runs one full ingestion pass for the file. Only one pass
// per path runs at a time; a concurrent call for the same path is
// dropped. A pass that could not commit leaves the file unmarked so
// the next change event retries it.
func (e *Engine) Process(ctx context.Context, path string) (*Report, error) {
	base := filepath.Base(path)

	if !e.begin(path) {
		e.log.Info("already processing, event dropped", zap.String("file", base))
		return &Report{File: base, Skipped: "already processing"}, nil
	}
	defer e.end(path)

	started := time.Now()

	decision := e.tracker.Check(path)
	if !decision.Should {
		e.log.Info("skipping file", zap.String("file", base), zap.String("reason", decision.Reason))
		return &Report{File: base, Skipped: decision.Reason, Duration: time.Since(started)}, nil
	}
	e.log.Info("processing file", zap.String("file", base), zap.String("reason", decision.Reason))

	e.waitForUnlock(ctx, path)

	sheet, err := e.codec.Read(path)
	if err != nil {
		// Parse failure: leave the file unmarked so a later write
		// retries it.
		return nil, fmt.Errorf("read %s: %w", base, err)
	}

	report := &Report{File: base, Rows: len(sheet.Rows)}
	if len(sheet.Rows) == 0 {
		e.tracker.MarkProcessed(path)
		report.Duration = time.Since(started)
		e.log.Info("file is empty, nothing to sync", zap.String("file", base))
		return report, nil
	}

	mapping := e.resolver.Resolve(ctx, sheet.Columns)
	products, rejected := ValidateRows(sheet, mapping)
	report.Ready = len(products)
	report.Rejected = rejected
	for _, r := range rejected {
		e.log.Warn("row rejected", zap.String("file", base), zap.Int("row", r.Row), zap.String("reason", r.Reason))
	}

	snap, err := e.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}

	report.Findings = FindDuplicates(products, snap)
	for _, f := range report.Findings {
		e.log.Info("duplicate finding", zap.String("file", base), zap.String("source", f.Source), zap.String("reason", f.Reason))
	}

	classified := Classify(products, snap, nil)
	for _, f := range classified.Failed {
		e.log.Warn("row failed", zap.String("file", base), zap.Int("row", f.Row), zap.String("reason", f.Reason))
		report.Rejected = append(report.Rejected, f)
	}

	result := e.sync.Commit(ctx, classified.Operations, base)
	report.Synced = result.Synced
	report.Failed = result.Failed + len(classified.Failed)
	report.Errors = result.Errors
	report.Duration = time.Since(started)

	if len(result.Errors) > 0 {
		// Commit failure: nothing was applied, keep the file unmarked
		// so the batch can retry from scratch.
		return report, nil
	}

	e.tracker.MarkProcessed(path)
	e.archiveFile(ctx, path)

	e.log.Info("file processed",
		zap.String("file", base),
		zap.Int("rows", report.Rows),
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (e *Engine) begin(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.processing[path] {
		return false
	}
	e.processing[path] = true
	return true
}

func (e *Engine) end(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.processing, path)
}

// waitForUnlock polls until the writer releases the file or the wait
// budget runs out. Processing proceeds either way; a torn read is
// tolerated downstream.
func (e *Engine) waitForUnlock(ctx context.Context, path string) {
	deadline := time.Now().Add(e.cfg.LockWait())
	for time.Now().Before(deadline) {
		if f, err := os.OpenFile(path, os.O_RDWR, 0); err == nil {
			f.Close()
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.cfg.LockPoll()):
		}
	}
	e.log.Warn("file still locked after wait, proceeding anyway",
		zap.String("file", filepath.Base(path)))
}

// archiveFile uploads the processed spreadsheet to the archive bucket.
// Best effort: failures are logged and do not affect the pass.
func (e *Engine) archiveFile(ctx context.Context, path string) {
	if e.archive == nil {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		e.log.Warn("archive skipped, cannot open file", zap.Error(err))
		return
	}
	defer f.Close()

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	object := fmt.Sprintf("archive/%s-%d%s", base[:len(base)-len(ext)], info.ModTime().UnixMilli(), ext)

	_, err = e.archive.PutObject(ctx, e.archiveBucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		e.log.Warn("archive upload failed", zap.String("object", object), zap.Error(err))
		return
	}
	e.log.Info("file archived", zap.String("object", object))
}

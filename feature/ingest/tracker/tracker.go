package tracker

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// retention is how long an idle entry survives a cleanup sweep.
const retention = time.Hour

// Decision is the outcome of a change check for one path.
type Decision struct {
	Should bool
	Reason string
}

type entry struct {
	// mtime is the last-seen modification time, updated on every check.
	mtime time.Time
	// processedMtime is the modification time recorded by the last
	// successful pass. Only an event carrying this exact mtime is
	// suppressed as unchanged; a failed pass never advances it, so the
	// file stays retryable.
	processedMtime time.Time
	lastCheck      time.Time
	processedAt    time.Time
}

// Tracker suppresses duplicate and spurious change events per file
// path by remembering the last processed modification time. It is
// safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	files map[string]*entry

	skipWindow      time.Duration
	reprocessWindow time.Duration
	maxTracked      int

	now    func() time.Time
	locked func(path string) bool
}

// New creates a tracker with the given suppression windows and
// capacity bound.
func New(skipWindow, reprocessWindow time.Duration, maxTracked int) *Tracker {
	return &Tracker{
		files:           make(map[string]*entry),
		skipWindow:      skipWindow,
		reprocessWindow: reprocessWindow,
		maxTracked:      maxTracked,
		now:             time.Now,
		locked:          isLocked,
	}
}

// Check decides whether the file at path should be processed now.
func (t *Tracker) Check(path string) Decision {
	info, err := os.Stat(path)
	if err != nil || t.locked(path) {
		return Decision{Should: false, Reason: "File locked"}
	}
	mtime := info.ModTime()

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e, ok := t.files[path]
	if !ok {
		t.files[path] = &entry{mtime: mtime, lastCheck: now}
		return Decision{Should: true, Reason: "New file detected"}
	}

	sinceCheck := now.Sub(e.lastCheck)
	e.lastCheck = now
	e.mtime = mtime

	if mtime.Equal(e.processedMtime) && !e.processedAt.IsZero() {
		return Decision{Should: false, Reason: "No file changes detected"}
	}
	if sinceCheck < t.skipWindow {
		return Decision{Should: false, Reason: "Duplicate change event"}
	}
	if !e.processedAt.IsZero() && now.Sub(e.processedAt) >= t.reprocessWindow {
		return Decision{Should: true, Reason: "File modified after inactivity"}
	}
	return Decision{Should: true, Reason: "File modified"}
}

// MarkProcessed records the file's current modification time so that
// the next identical-mtime event is suppressed.
func (t *Tracker) MarkProcessed(path string) {
	var mtime time.Time
	if info, err := os.Stat(path); err == nil {
		mtime = info.ModTime()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e, ok := t.files[path]
	if !ok {
		e = &entry{}
		t.files[path] = e
	}
	if !mtime.IsZero() {
		e.mtime = mtime
		e.processedMtime = mtime
	}
	e.lastCheck = now
	e.processedAt = now
}

// Forget drops the tracking entry for path.
func (t *Tracker) Forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Cleanup evicts entries not checked within the retention period, then
// trims the oldest entries until the tracker is within capacity.
func (t *Tracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	evicted := 0
	for path, e := range t.files {
		if now.Sub(e.lastCheck) > retention {
			delete(t.files, path)
			evicted++
		}
	}

	if over := len(t.files) - t.maxTracked; over > 0 {
		type aged struct {
			path string
			seen time.Time
		}
		all := make([]aged, 0, len(t.files))
		for path, e := range t.files {
			all = append(all, aged{path: path, seen: e.lastCheck})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].seen.Before(all[j].seen) })
		for _, a := range all[:over] {
			delete(t.files, a.path)
			evicted++
		}
	}

	return evicted
}

// Stats reports the tracker's current occupancy.
type Stats struct {
	Tracked  int `json:"tracked"`
	Capacity int `json:"capacity"`
}

// Stats returns the number of tracked paths and the capacity bound.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{Tracked: len(t.files), Capacity: t.maxTracked}
}

// isLocked probes whether another writer holds an exclusive lock on
// the file. A lock we can briefly acquire ourselves is not a lock.
func isLocked(path string) bool {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = fl.Unlock()
		return false
	}
	return true
}

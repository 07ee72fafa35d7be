package ingest

import "time"

// Config holds configuration for the file watcher and ingestion engine.
type Config struct {
	// Dir is the directory watched for spreadsheet changes.
	Dir string `mapstructure:"dir" default:"./watched"`
	// DebounceMS is how long a file must stay quiet after its last
	// write event before it is processed.
	DebounceMS int `mapstructure:"debounce_ms" default:"2000"`
	// LockWaitMS is the maximum time to wait for a file lock to clear
	// before processing proceeds anyway.
	LockWaitMS int `mapstructure:"lock_wait_ms" default:"5000"`
	// LockPollMS is the interval between file lock probes.
	LockPollMS int `mapstructure:"lock_poll_ms" default:"100"`
	// SkipWindowMS suppresses re-processing of a file within this many
	// milliseconds of it being marked processed.
	SkipWindowMS int `mapstructure:"skip_window_ms" default:"2000"`
	// ReprocessWindowMS forces processing of a file not seen for this
	// many milliseconds even when its timestamp is unchanged.
	ReprocessWindowMS int `mapstructure:"reprocess_window_ms" default:"30000"`
	// MaxTracked bounds the number of files the change tracker retains.
	MaxTracked int `mapstructure:"max_tracked" default:"100"`
}

// Debounce returns the debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// LockWait returns the lock wait budget as a duration.
func (c Config) LockWait() time.Duration {
	return time.Duration(c.LockWaitMS) * time.Millisecond
}

// LockPoll returns the lock probe interval as a duration.
func (c Config) LockPoll() time.Duration {
	return time.Duration(c.LockPollMS) * time.Millisecond
}

// SkipWindow returns the skip window as a duration.
func (c Config) SkipWindow() time.Duration {
	return time.Duration(c.SkipWindowMS) * time.Millisecond
}

// ReprocessWindow returns the reprocess window as a duration.
func (c Config) ReprocessWindow() time.Duration {
	return time.Duration(c.ReprocessWindowMS) * time.Millisecond
}

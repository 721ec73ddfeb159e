// Package scratch manages the transient download directory.
package scratch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/hszk-dev/linkedin-dl/internal/clock"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/metrics"
)

// DefaultCleanupInterval is both the minimum time between sweeps and the
// file age after which a scratch file is removed.
const DefaultCleanupInterval = time.Hour

// ReaperConfig holds configuration for the Reaper.
type ReaperConfig struct {
	// Dir is the scratch directory to sweep.
	Dir string
	// Interval is the minimum time between sweeps and the stale-file age threshold.
	Interval time.Duration
	// Clock supplies the current time. Defaults to the system clock.
	Clock clock.Clock
	// Logger receives per-file failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// SweepResult summarises one MaybeCleanup call.
type SweepResult struct {
	Ran        bool
	Removed    int
	Failed     int
	FreedBytes int64
}

// Reaper removes stale files from the scratch directory.
// It is advisory housekeeping: callers invoke MaybeCleanup opportunistically
// and never see its errors.
type Reaper struct {
	fs       afero.Fs
	dir      string
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewReaper creates a Reaper over fs. The first sweep happens once a full
// interval has passed since construction.
func NewReaper(fs afero.Fs, cfg ReaperConfig) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCleanupInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Reaper{
		fs:       fs,
		dir:      cfg.Dir,
		interval: cfg.Interval,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		lastRun:  cfg.Clock.Now(),
	}
}

// Dir returns the scratch directory.
func (r *Reaper) Dir() string {
	return r.dir
}

// LastRun returns the time of the most recent sweep, or construction time.
func (r *Reaper) LastRun() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun
}

// MaybeCleanup sweeps the scratch directory if at least one interval has
// elapsed since the last sweep. Otherwise it returns immediately.
func (r *Reaper) MaybeCleanup() SweepResult {
	now, ok := r.claim()
	if !ok {
		return SweepResult{}
	}

	metrics.ReaperSweepsTotal.Inc()
	result := SweepResult{Ran: true}

	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		r.logger.Warn("scratch cleanup: failed to list directory",
			slog.String("dir", r.dir),
			slog.String("error", err.Error()),
		)
		return result
	}

	for _, fi := range entries {
		if !fi.Mode().IsRegular() {
			continue
		}
		if now.Sub(fi.ModTime()) <= r.interval {
			continue
		}

		if err := r.remove(fi); err != nil {
			result.Failed++
			metrics.ReaperFilesTotal.WithLabelValues(metrics.ResultFailed).Inc()
			r.logger.Warn("scratch cleanup: failed to remove file",
				slog.String("file", fi.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.Removed++
		result.FreedBytes += fi.Size()
		metrics.ReaperFilesTotal.WithLabelValues(metrics.ResultRemoved).Inc()
	}

	if result.Removed > 0 || result.Failed > 0 {
		r.logger.Info("scratch cleanup finished",
			slog.Int("removed", result.Removed),
			slog.Int("failed", result.Failed),
			slog.String("freed", humanize.Bytes(uint64(result.FreedBytes))),
		)
	}

	return result
}

// claim records a sweep start if one is due. Holding the lock only for the
// timestamp check keeps concurrent callers from sweeping twice.
func (r *Reaper) claim() (time.Time, bool) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastRun) < r.interval {
		return time.Time{}, false
	}
	r.lastRun = now
	return now, true
}

func (r *Reaper) remove(fi os.FileInfo) error {
	path := filepath.Join(r.dir, fi.Name())
	if err := r.fs.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is the set of site file events coalesced into one run.
type Change struct {
	// Path is the file named by the last event.
	Path string
	// Ops is the union of the events' operations.
	Ops fsnotify.Op
	// Events counts the coalesced events.
	Events int
}

// String describes the change for status lines, e.g.
// "site.yaml (write, 3 events)".
func (c Change) String() string {
	ops := strings.ToLower(c.Ops.String())
	if c.Events > 1 {
		return fmt.Sprintf("%s (%s, %d events)", filepath.Base(c.Path), ops, c.Events)
	}

	return fmt.Sprintf("%s (%s)", filepath.Base(c.Path), ops)
}

// debouncer collects site file events and fires once the file has been
// quiet for the interval. Runs are bound to ctx: a pending run is dropped
// once ctx is done.
type debouncer struct {
	ctx      context.Context
	interval time.Duration
	fire     func(context.Context, Change)
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending Change
}

func newDebouncer(ctx context.Context, interval time.Duration, logger *slog.Logger, fire func(context.Context, Change)) *debouncer {
	if logger == nil {
		logger = slog.Default()
	}

	return &debouncer{
		ctx:      ctx,
		interval: interval,
		fire:     fire,
		logger:   logger,
	}
}

// Add records ev and restarts the quiet period.
func (d *debouncer) Add(ev fsnotify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Path = ev.Name
	d.pending.Ops |= ev.Op
	d.pending.Events++

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop cancels the pending run and reports whether one was dropped.
func (d *debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	dropped := d.pending.Events > 0
	d.pending = Change{}

	return dropped
}

func (d *debouncer) flush() {
	d.mu.Lock()
	c := d.pending
	d.pending = Change{}
	d.timer = nil
	d.mu.Unlock()

	// A timer stopped after it started firing finds nothing pending.
	if c.Events == 0 {
		return
	}

	if err := d.ctx.Err(); err != nil {
		d.logger.Debug("dropping site change", slog.String("change", c.String()))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("watch run panicked", slog.Any("error", r), slog.String("change", c.String()))
		}
	}()

	d.fire(d.ctx, c)
}

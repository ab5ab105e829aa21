package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/crumbtrail/internal/output"
)

// RunFunc is called each time the watcher triggers a dispatch. It returns
// the rendered trail so the watcher can report changes between runs.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single dispatch.
type RunResult struct {
	// Crumbs is the number of entries in the trail.
	Crumbs int
	// Rendered is the trail in a line-oriented form, compared between runs.
	Rendered string
}

// Options configures the watch behaviour.
type Options struct {
	// SiteFile is the site file to watch.
	SiteFile string

	// Debounce is the quiet period before re-running.
	Debounce time.Duration

	// Color enables ANSI colors in trail diffs.
	Color bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
//
// The site file's directory is watched rather than the file itself, since
// many editors save by writing a new file and renaming it over the old one.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	target, err := filepath.Abs(opts.SiteFile)
	if err != nil {
		return fmt.Errorf("resolving site file %q: %w", opts.SiteFile, err)
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("watching site file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching site directory: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.SiteFile, opts.Debounce)

	r := &runner{opts: opts, runFn: runFn}

	r.run(sigCtx, "(initial)")

	d := newDebouncer(sigCtx, opts.Debounce, opts.Logger, func(ctx context.Context, c Change) {
		r.run(ctx, c.String())
	})
	defer d.Stop()

	for {
		select {
		case <-sigCtx.Done():
			if d.Stop() {
				fmt.Fprintln(opts.Out, "\ndropping pending site change")
			}

			fmt.Fprintln(opts.Out, "\nshutting down watcher")

			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, target) {
				continue
			}

			opts.Logger.Debug("site file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			d.Add(event)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// runner serializes dispatch runs and remembers the previous trail.
type runner struct {
	opts  Options
	runFn RunFunc

	mu   sync.Mutex
	prev *RunResult
}

// run executes a single dispatch and prints the status line followed by a
// diff against the previous successful run.
func (r *runner) run(ctx context.Context, trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.opts.Out
	now := time.Now().Format("15:04:05")

	result, err := r.runFn(ctx)
	if err != nil {
		fmt.Fprintf(out, "[%s] %s -> ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(out, "[%s] %s -> OK (%d crumbs)\n", now, trigger, result.Crumbs)

	prev := r.prev
	r.prev = result

	if prev == nil {
		return
	}

	diff, err := output.ComputeDiff(prev.Rendered, result.Rendered, output.DiffOptions{
		OldLabel: "previous",
		NewLabel: "current",
		Context:  3,
	})
	if err != nil {
		r.opts.Logger.Warn("diffing trails", slog.String("error", err.Error()))
		return
	}

	if !diff.HasDifferences {
		fmt.Fprintln(out, "  trail unchanged")
		return
	}

	output.WriteDiff(out, diff, r.opts.Color)
}

// isRelevant reports whether event touches target with an operation that
// can change its content.
func isRelevant(event fsnotify.Event, target string) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return name == target
}

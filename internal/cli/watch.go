package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/config"
	"github.com/hupe1980/crumbtrail/internal/logging"
	"github.com/hupe1980/crumbtrail/internal/output"
	"github.com/hupe1980/crumbtrail/internal/watch"
)

type watchOptions struct {
	param    string
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [route]",
		Short: "Re-print a route's trail whenever the site file changes",
		Long: `Watch monitors the site file and re-dispatches the route after every
change. Changes are debounced to avoid rapid re-runs. Each run prints the
trail and a diff against the previous run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, routeArg(args), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.param, "param", breadcrumb.DefaultBreadcrumbsParam, "view parameter holding the trail")
	f.DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "quiet period before re-running")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, route string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)

	wOpts := watch.DefaultOptions()
	wOpts.SiteFile = cfg.Site
	wOpts.Debounce = opts.debounce
	wOpts.Color = !cfg.NoColor
	wOpts.Logger = logging.FromContext(ctx)
	wOpts.Out = cmd.ErrOrStderr()

	// The site is rebuilt on every run so edits to the file take effect.
	runFn := func(ctx context.Context) (*watch.RunResult, error) {
		s, err := loadSite(ctx)
		if err != nil {
			return nil, err
		}

		crumbs, err := dispatchTrail(ctx, s, route, opts.param)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := output.RenderText(&buf, crumbs); err != nil {
			return nil, err
		}

		if err := output.NewStreamWriter(cmd.OutOrStdout()).Write(buf.Bytes()); err != nil {
			return nil, err
		}

		return &watch.RunResult{Crumbs: len(crumbs), Rendered: output.TrailLines(crumbs)}, nil
	}

	if err := watch.Run(ctx, wOpts, runFn); err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}

	return nil
}

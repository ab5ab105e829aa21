package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/crumbtrail/internal/config"
	"github.com/hupe1980/crumbtrail/internal/logging"
	"github.com/hupe1980/crumbtrail/internal/output"
	"github.com/hupe1980/crumbtrail/internal/site"
	"github.com/hupe1980/crumbtrail/internal/version"
)

// loadSite reads, checks and builds the configured site file. Problems with
// the file itself are usage errors.
func loadSite(ctx context.Context) (*site.Site, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	f, err := site.Load(cfg.Site)
	if err != nil {
		return nil, &ExitError{Code: exitUsage, Err: err}
	}

	if err := version.CheckConstraint(f.Requires); err != nil {
		return nil, &ExitError{Code: exitUsage, Err: fmt.Errorf("site file %q: %w", cfg.Site, err)}
	}

	if cfg.BaseURL != "" {
		f.URLs.BaseURL = cfg.BaseURL
	}

	s, err := site.Build(f, site.WithLogger(logger))
	if err != nil {
		return nil, &ExitError{Code: exitUsage, Err: fmt.Errorf("site file %q: %w", cfg.Site, err)}
	}

	logger.Debug("site loaded",
		slog.String("site", cfg.Site),
		slog.String("name", s.Name()),
	)

	return s, nil
}

// dispatchTrail dispatches route and returns the crumbs written to param.
func dispatchTrail(ctx context.Context, s *site.Site, route, param string) ([]output.Crumb, error) {
	d, err := s.Dispatch(logging.WithAttrs(ctx, slog.String("route", route)), route)
	if err != nil {
		if errors.Is(err, site.ErrRouteNotFound) {
			return nil, &ExitError{Code: exitFailure, Err: err}
		}

		return nil, &ExitError{Code: exitFailure, Err: fmt.Errorf("building breadcrumbs: %w", err)}
	}

	t, _ := d.Request.View.LookupTrail(param)

	return output.FromTrail(t), nil
}

func routeArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

package cli

import (
	"bytes"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/logging"
	"github.com/hupe1980/crumbtrail/internal/output"
)

type trailOptions struct {
	format string
	param  string
	output string
	mode   string
}

func newTrailCommand() *cobra.Command {
	opts := &trailOptions{}
	registry := output.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "trail [route]",
		Short: "Print the breadcrumb trail of a route",
		Long: `Trail dispatches a route against the site file and prints the
breadcrumb trail the filters of every module and controller on the way
produced. An omitted route dispatches the application's default route.

Formats: ` + registry.AvailableFormats() + `.`,
		Example: `  crumbtrail trail admin/users/profile/view
  crumbtrail trail admin/users --format table
  crumbtrail trail news --format json -o trail.json --mode 0600`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := registry.Renderer(opts.format)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}

			mode, err := output.ParseMode(opts.mode)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}

			ctx := cmd.Context()

			s, err := loadSite(ctx)
			if err != nil {
				return err
			}

			crumbs, err := dispatchTrail(ctx, s, routeArg(args), opts.param)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render(&buf, crumbs); err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			if opts.output == "" {
				if err := output.NewStreamWriter(cmd.OutOrStdout()).Write(buf.Bytes()); err != nil {
					return &ExitError{Code: exitFailure, Err: err}
				}

				return nil
			}

			logger := logging.FromContext(ctx)

			fw := output.NewFileWriter(opts.output, output.WithMode(mode), output.WithLogger(logger))
			if err := fw.Write(buf.Bytes()); err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			logger.Debug("trail written",
				slog.String("path", fw.Path()),
				slog.String("mode", fw.Mode().String()),
				slog.Int("crumbs", len(crumbs)),
			)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", output.FormatText, "output format: "+registry.AvailableFormats())
	f.StringVar(&opts.param, "param", breadcrumb.DefaultBreadcrumbsParam, "view parameter holding the trail")
	f.StringVarP(&opts.output, "output", "o", "", "write the trail to a file instead of stdout")
	f.StringVar(&opts.mode, "mode", "0644", "octal permissions of the --output file")

	return cmd
}

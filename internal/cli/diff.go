package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/config"
	"github.com/hupe1980/crumbtrail/internal/output"
)

type diffOptions struct {
	param   string
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <route-a> <route-b>",
		Short: "Compare the breadcrumb trails of two routes",
		Long: `Diff dispatches two routes against the same site file and prints a
unified diff of their trails, one line per entry.

Exit codes:
  0  Trails are equal
  1  Error
  2  Invalid arguments or site file
  3  Trails differ`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := loadSite(ctx)
			if err != nil {
				return err
			}

			a, err := dispatchTrail(ctx, s, args[0], opts.param)
			if err != nil {
				return err
			}

			b, err := dispatchTrail(ctx, s, args[1], opts.param)
			if err != nil {
				return err
			}

			diffOpts := output.DefaultDiffOptions()
			diffOpts.OldLabel = args[0]
			diffOpts.NewLabel = args[1]
			diffOpts.Context = opts.context

			result, err := output.DiffTrails(a, b, diffOpts)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			output.WriteDiff(cmd.OutOrStdout(), result, !config.FromContext(ctx).NoColor)

			if result.HasDifferences {
				return &ExitError{
					Code: exitTrailsDiffer,
					Err:  fmt.Errorf("trails of %q and %q differ", args[0], args[1]),
				}
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.param, "param", breadcrumb.DefaultBreadcrumbsParam, "view parameter holding the trail")
	f.IntVar(&opts.context, "context", 3, "lines of context around changes")

	return cmd
}

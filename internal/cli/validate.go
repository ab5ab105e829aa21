package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/crumbtrail/internal/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a site file",
		Long: `Validate parses the site file, checks every module, controller and
breadcrumb filter configuration, and builds the filters against their
owners. All configuration problems are reported at once.

Returns exit code 2 when the site file is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSite(cmd.Context())
			if err != nil {
				return err
			}

			st := s.Stats()

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"Site %s is valid: %d modules, %d controllers, %d breadcrumb filters.\n",
				config.FromContext(cmd.Context()).Site, st.Modules, st.Controllers, st.Filters)

			return err
		},
	}

	return cmd
}

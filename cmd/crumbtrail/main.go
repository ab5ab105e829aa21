// crumbtrail dispatches routes through breadcrumb filters and prints the
// resulting trails.
package main

import (
	"os"

	"github.com/hupe1980/crumbtrail/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

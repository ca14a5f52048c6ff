// Command villagectl is the operator tool for the village server: catalog
// inspection, offline battle simulation, test tokens and migrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "villagectl",
		Short:         "Operator tool for the village server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("catalog", "", "catalog YAML file (defaults to the embedded catalog)")

	root.AddCommand(
		newCatalogCmd(),
		newBattleCmd(),
		newTokenCmd(),
		newMigrateCmd(),
	)
	return root
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/pkg/bootstrap"
	"github.com/homekeep/homekeep/pkg/ui/styles"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [domain]",
	Short: "Run a domain's bootstrap capability",
	Long: `Run the optional bootstrap attached to a domain, e.g. seeding a
missing shell rc file before its first import. With no argument the
domains that have a bootstrap are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range bootstrap.Registered() {
				fmt.Fprintln(out, styles.Render("Domain", name))
			}
			return nil
		}

		// The domain must exist in the catalog even though the
		// capability lives outside it
		if _, err := a.domain(args[0]); err != nil {
			return err
		}
		if err := bootstrap.Run(cmd.Context(), args[0], a.fs, a.paths); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", styles.Render("Success", "bootstrapped"), args[0])
		return nil
	},
}

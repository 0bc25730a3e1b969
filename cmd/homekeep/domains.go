package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/pkg/types"
	"github.com/homekeep/homekeep/pkg/ui/styles"
)

var domainsKindFlag string

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the known domains",
	Long: `List every domain in the catalog, grouped by kind. Domains not
compatible with the current OS family are marked as such.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, kind := range types.Kinds {
			if domainsKindFlag != "" && string(kind) != domainsKindFlag {
				continue
			}
			domains := a.reg.ByKind(kind)
			if len(domains) == 0 {
				continue
			}
			fmt.Fprintln(out, styles.Render("Header", string(kind)))
			for _, d := range domains {
				line := fmt.Sprintf("  %s", styles.Render("Domain", d.Name))
				if !d.Supports(a.family) {
					line += " " + styles.Render("Muted", fmt.Sprintf("(not available on %s)", a.family))
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	domainsCmd.Flags().StringVar(&domainsKindFlag, "kind", "", "Only list domains of this kind (os, ide, terminal)")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/ui/styles"
)

var importCmd = &cobra.Command{
	Use:   "import <domain> [path...]",
	Short: "Import live files into storage and link them",
	Long: `Copy a domain's live configuration files into the storage tree and
replace each live path with a symbolic link. With no paths given, every
path declared for the current OS family is imported. Paths whose
content is already under storage are re-linked without overwriting the
stored content. Already-linked paths are left alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		d, err := a.domain(args[0])
		if err != nil {
			return err
		}

		results, err := a.links().Import(cmd.Context(), d, a.family, args[1:])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				failed++
				fmt.Fprintf(out, "  %s %s: %v\n", styles.Render("Error", "failed"), res.Path, res.Err)
			case res.Skipped:
				fmt.Fprintf(out, "  %s %s\n", styles.Render("Muted", "kept"), res.Path)
			case res.Copied:
				fmt.Fprintf(out, "  %s %s\n", styles.Render("Success", "imported"), res.Path)
			default:
				fmt.Fprintf(out, "  %s %s\n", styles.Render("Success", "linked"), res.Path)
			}
		}
		if failed > 0 {
			return errors.Newf(errors.ErrInternal, "%d of %d paths failed to import", failed, len(results))
		}
		return nil
	},
}

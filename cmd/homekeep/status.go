package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/pkg/types"
	"github.com/homekeep/homekeep/pkg/ui/styles"
)

var statusCmd = &cobra.Command{
	Use:   "status [domain...]",
	Short: "Show synchronization status per domain",
	Long: `Classify each domain against the current OS family: how many of its
declared paths are already held under storage. With no arguments every
domain compatible with the current family is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var domains []types.Domain
		if len(args) == 0 {
			domains = a.reg.ByFamily(a.family)
		} else {
			for _, name := range args {
				d, err := a.domain(name)
				if err != nil {
					return err
				}
				domains = append(domains, d)
			}
		}

		reconciler := a.links()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", styles.Render("Header", "family:"), a.family)
		for _, d := range domains {
			report := reconciler.Classify(d, a.family)
			printReport(out, report)
		}
		return nil
	},
}

func printReport(out io.Writer, report types.LinkReport) {
	name := styles.Render("Domain", report.Domain)
	switch report.Status {
	case types.StatusIncompatible:
		fmt.Fprintf(out, "  %s  %s\n", name, styles.Render("Muted", "incompatible"))
	case types.StatusFullyImported:
		fmt.Fprintf(out, "  %s  %s  %d/%d\n", name,
			styles.Render("Success", string(report.Status)), report.ImportedCount(), report.Total)
	case types.StatusNotImported:
		fmt.Fprintf(out, "  %s  %s  %d/%d\n", name,
			styles.Render("Error", string(report.Status)), report.ImportedCount(), report.Total)
	default:
		fmt.Fprintf(out, "  %s  %s  %d/%d\n", name,
			styles.Render("Warning", string(report.Status)), report.ImportedCount(), report.Total)
		for _, missing := range report.Missing {
			fmt.Fprintf(out, "      %s\n", styles.Render("Muted", "missing "+missing))
		}
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
	"github.com/homekeep/homekeep/pkg/ui/styles"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Reconcile OS packages against the declared list",
}

var packagesListCmd = &cobra.Command{
	Use:   "list <domain>",
	Short: "Show the declared package list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, mgr, err := managerFor(args[0])
		if err != nil {
			return err
		}
		r := a.pkgs()
		if err := r.EnsureList(mgr); err != nil {
			return err
		}
		declared, err := r.LoadDeclared(mgr)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.Render("Muted", r.ListPath(mgr)))
		for _, pkg := range declared {
			fmt.Fprintln(out, pkg)
		}
		return nil
	},
}

var packagesStatusCmd = &cobra.Command{
	Use:   "status <domain>",
	Short: "Partition declared packages by installation state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, mgr, err := managerFor(args[0])
		if err != nil {
			return err
		}
		r := a.pkgs()
		declared, err := r.LoadDeclared(mgr)
		if err != nil {
			return err
		}
		part := r.Partition(cmd.Context(), declared, mgr)
		out := cmd.OutOrStdout()
		for _, pkg := range part.Installed {
			fmt.Fprintf(out, "  %s %s\n", styles.Render("Success", "installed"), pkg)
		}
		for _, pkg := range part.NotInstalled {
			fmt.Fprintf(out, "  %s %s\n", styles.Render("Error", "missing"), pkg)
		}
		return nil
	},
}

var packagesInstallCmd = &cobra.Command{
	Use:   "install <domain> <package>...",
	Short: "Install packages through the domain's manager",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, mgr, err := managerFor(args[0])
		if err != nil {
			return err
		}
		results := a.pkgs().Install(cmd.Context(), args[1:], mgr)
		return printPackageResults(cmd, results, "install")
	},
}

var packagesRemoveCmd = &cobra.Command{
	Use:   "remove <domain> <package>...",
	Short: "Remove packages through the domain's manager",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, mgr, err := managerFor(args[0])
		if err != nil {
			return err
		}
		results := a.pkgs().Remove(cmd.Context(), args[1:], mgr)
		return printPackageResults(cmd, results, "remove")
	},
}

var packagesSyncCmd = &cobra.Command{
	Use:   "sync <domain>",
	Short: "Install every declared package that is missing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, mgr, err := managerFor(args[0])
		if err != nil {
			return err
		}
		r := a.pkgs()
		if err := r.EnsureList(mgr); err != nil {
			return err
		}
		part, results, err := r.Sync(cmd.Context(), mgr)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d declared, %d already installed\n",
			len(part.Installed)+len(part.NotInstalled), len(part.Installed))
		return printPackageResults(cmd, results, "install")
	},
}

// managerFor resolves a domain argument to its package manager config
func managerFor(domainName string) (*app, types.PackageManagerConfig, error) {
	a, err := newApp()
	if err != nil {
		return nil, types.PackageManagerConfig{}, err
	}
	d, err := a.domain(domainName)
	if err != nil {
		return nil, types.PackageManagerConfig{}, err
	}
	mgr, err := a.manager(d)
	if err != nil {
		return nil, types.PackageManagerConfig{}, err
	}
	return a, mgr, nil
}

func printPackageResults(cmd *cobra.Command, results []types.PackageResult, action string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(out, "  %s %s: %v\n", styles.Render("Error", "failed"), res.Package, res.Err)
		} else {
			done := "installed"
			if action == "remove" {
				done = "removed"
			}
			fmt.Fprintf(out, "  %s %s\n", styles.Render("Success", done), res.Package)
		}
	}
	if failed > 0 {
		return errors.Newf(errors.ErrCommandRun, "%d of %d packages failed to %s", failed, len(results), action)
	}
	return nil
}

func init() {
	packagesCmd.PersistentFlags().StringVar(&managerFlag, "manager", "", "Package manager to use when a domain has several")
	packagesCmd.AddCommand(packagesListCmd)
	packagesCmd.AddCommand(packagesStatusCmd)
	packagesCmd.AddCommand(packagesInstallCmd)
	packagesCmd.AddCommand(packagesRemoveCmd)
	packagesCmd.AddCommand(packagesSyncCmd)
}

package main

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/homekeep/homekeep/internal/version"
	"github.com/homekeep/homekeep/pkg/cobrax/topics"
	"github.com/homekeep/homekeep/pkg/config"
	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/filesystem"
	"github.com/homekeep/homekeep/pkg/link"
	"github.com/homekeep/homekeep/pkg/logging"
	"github.com/homekeep/homekeep/pkg/packages"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/platform"
	"github.com/homekeep/homekeep/pkg/registry"
	"github.com/homekeep/homekeep/pkg/types"
)

var (
	verbosity       int
	storageRootFlag string
	familyFlag      string
	managerFlag     string

	rootCmd = &cobra.Command{
		Use:   "homekeep",
		Short: "Keep your environment configuration in one portable tree",
		Long: `homekeep centralizes your environment configuration (editor settings,
shell rc files, OS package lists) into a version-controllable storage
tree, keeps the live locations synchronized via symbolic links, and
reconciles installed packages against a declarative list.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&storageRootFlag, "storage-root", "", "Storage tree location (overrides config and git discovery)")
	rootCmd.PersistentFlags().StringVar(&familyFlag, "family", "", "OS family override (e.g. arch, ubuntu, macos)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(bootstrapCmd)

	// Embedded content is fixed at build time, so a failure here is a
	// packaging bug
	sub, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		panic(err)
	}
	if err := topics.Initialize(rootCmd, sub); err != nil {
		panic(err)
	}
}

//go:embed topics
var topicsFS embed.FS

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("homekeep version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// app bundles everything a command needs: resolved configuration, the
// domain catalog, the path context and the reconcilers built on it
type app struct {
	cfg    *config.Config
	reg    *registry.Registry
	paths  *paths.Paths
	fs     types.FS
	family types.Family
}

// newApp resolves configuration and wires the reconciliation stack
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storageRootFlag != "" {
		cfg.StorageRoot = storageRootFlag
	}
	if familyFlag != "" {
		cfg.Family = familyFlag
	}

	root, usedFallback, err := cfg.ResolveStorageRoot()
	if err != nil {
		return nil, err
	}
	if usedFallback {
		log.Warn().Str("root", root).Msg("no storage root configured, using XDG data directory")
	}

	p, err := paths.NewFromEnv(root)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}

	family := types.Family(cfg.Family)
	if family == "" {
		family, err = platform.DetectFamily()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad,
				"could not detect OS family, set one with --family")
		}
	}

	return &app{
		cfg:    cfg,
		reg:    reg,
		paths:  p,
		fs:     filesystem.NewOS(),
		family: family,
	}, nil
}

// links returns a symlink reconciler over the app's context
func (a *app) links() *link.Reconciler {
	return link.New(a.fs, a.paths)
}

// pkgs returns a package reconciler over the app's context
func (a *app) pkgs() *packages.Reconciler {
	return packages.New(a.fs, a.paths, packages.NewExecRunner())
}

// domain looks a domain up by name, failing with a coded error
func (a *app) domain(name string) (types.Domain, error) {
	d, ok := a.reg.ByName(name)
	if !ok {
		return types.Domain{}, errors.Newf(errors.ErrDomainNotFound, "unknown domain %q", name)
	}
	return d, nil
}

// manager picks the package manager to drive for an OS domain: the
// --manager flag when given, otherwise the domain's single manager
func (a *app) manager(d types.Domain) (types.PackageManagerConfig, error) {
	if len(d.PackageManagers) == 0 {
		return types.PackageManagerConfig{}, errors.Newf(errors.ErrInvalidInput,
			"domain %q has no package managers", d.Name)
	}
	if managerFlag != "" {
		cfg, ok := d.Manager(managerFlag)
		if !ok {
			return types.PackageManagerConfig{}, errors.Newf(errors.ErrNotFound,
				"domain %q has no manager %q (available: %v)", d.Name, managerFlag, d.ManagerNames())
		}
		return cfg, nil
	}
	names := d.ManagerNames()
	if len(names) > 1 {
		return types.PackageManagerConfig{}, errors.Newf(errors.ErrInvalidInput,
			"domain %q has several managers %v, pick one with --manager", d.Name, names)
	}
	return d.PackageManagers[names[0]], nil
}

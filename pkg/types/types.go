// Package types defines the core domain model shared across homekeep:
// domains, OS families, package manager configuration and the
// filesystem abstraction used by the reconcilers.
package types

import (
	"sort"
	"strings"
)

// Kind classifies a domain by the sort of environment it manages.
type Kind string

const (
	// KindOS is an operating system distribution (packages + optional files)
	KindOS Kind = "os"

	// KindIDE is an editor or IDE (configuration files only)
	KindIDE Kind = "ide"

	// KindTerminal is a terminal or shell environment
	KindTerminal Kind = "terminal"
)

// Kinds lists all valid domain kinds in display order
var Kinds = []Kind{KindOS, KindIDE, KindTerminal}

// Valid reports whether the kind is one of the known tags
func (k Kind) Valid() bool {
	switch k {
	case KindOS, KindIDE, KindTerminal:
		return true
	}
	return false
}

// Family is a coarse OS classification used to select which declared
// paths and package managers apply (a distribution identifier such as
// "arch" or "ubuntu", or "macos").
type Family string

// Domain describes one managed environment: which OS families it is
// compatible with, which package managers it drives (OS domains) and
// which home-relative files it keeps under storage.
//
// Domains are constructed once at startup from the embedded catalog
// and are immutable afterwards.
type Domain struct {
	// Name is the unique identifier within the registry
	Name string

	// Kind tags the domain as os, ide or terminal
	Kind Kind

	// Families lists the OS families this domain applies to
	Families []Family

	// PackageManagers maps manager name to its configuration.
	// Only populated for OS domains.
	PackageManagers map[string]PackageManagerConfig

	// SymlinkPaths maps an OS family to the ordered list of
	// home-relative paths managed for that family.
	SymlinkPaths map[Family][]string
}

// Supports reports whether the domain is compatible with the family
func (d Domain) Supports(family Family) bool {
	for _, f := range d.Families {
		if f == family {
			return true
		}
	}
	return false
}

// PathsFor returns the declared symlink paths for a family, in
// declaration order. Returns nil when the family has none.
func (d Domain) PathsFor(family Family) []string {
	return d.SymlinkPaths[family]
}

// Manager returns the named package manager configuration
func (d Domain) Manager(name string) (PackageManagerConfig, bool) {
	cfg, ok := d.PackageManagers[name]
	return cfg, ok
}

// ManagerNames returns the configured manager names in sorted order
func (d Domain) ManagerNames() []string {
	names := make([]string, 0, len(d.PackageManagers))
	for name := range d.PackageManagers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PackageManagerConfig describes how to drive one external package
// manager: where its declarative package list lives (relative to the
// storage root) and the command templates used to install, remove and
// query packages. Each template carries exactly one %s placeholder
// which receives the package name.
type PackageManagerConfig struct {
	// Name of the manager (pacman, apt, brew, ...)
	Name string

	// ConfigPath is the storage-root-relative path of the package list
	ConfigPath string

	// Install is the install command template, e.g. "sudo pacman -S --noconfirm %s"
	Install string

	// Remove is the removal command template
	Remove string

	// Status is the query template; non-empty stdout means installed
	Status string

	// DefaultContent is written when the package list is first created
	DefaultContent string
}

// Placeholder is the substitution marker in command templates
const Placeholder = "%s"

// Templates returns the three command templates keyed by role,
// mainly for validation at registry construction
func (c PackageManagerConfig) Templates() map[string]string {
	return map[string]string{
		"install": c.Install,
		"remove":  c.Remove,
		"status":  c.Status,
	}
}

// HasOnePlaceholder reports whether tmpl carries exactly one %s
func HasOnePlaceholder(tmpl string) bool {
	return strings.Count(tmpl, Placeholder) == 1
}

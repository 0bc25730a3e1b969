// Package registry holds the static catalog of known domains. The
// catalog is parsed and validated once at construction; lookups are
// pure functions over the immutable table, with absence reported as a
// boolean rather than an error.
package registry

import (
	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

// Registry is the immutable domain catalog
type Registry struct {
	// domains keeps registration order, which ByKind preserves
	domains []types.Domain
	byName  map[string]int
}

// New builds a registry from the given domains, validating every
// record. A validation failure is a construction error; the registry
// is never partially built.
func New(domains []types.Domain) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]int, len(domains)),
	}
	for _, d := range domains {
		if err := validate(d); err != nil {
			return nil, err
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, errors.Newf(errors.ErrAlreadyExists, "domain %q is declared twice", d.Name)
		}
		r.byName[d.Name] = len(r.domains)
		r.domains = append(r.domains, d)
	}
	return r, nil
}

// ByName returns the named domain, with ok=false for absence
func (r *Registry) ByName(name string) (types.Domain, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return types.Domain{}, false
	}
	return r.domains[idx], true
}

// ByKind returns all domains of the given kind in registration order
func (r *Registry) ByKind(kind types.Kind) []types.Domain {
	var out []types.Domain
	for _, d := range r.domains {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ByFamily returns all domains compatible with the given family,
// in registration order
func (r *Registry) ByFamily(family types.Family) []types.Domain {
	var out []types.Domain
	for _, d := range r.domains {
		if d.Supports(family) {
			out = append(out, d)
		}
	}
	return out
}

// All returns every domain in registration order
func (r *Registry) All() []types.Domain {
	out := make([]types.Domain, len(r.domains))
	copy(out, r.domains)
	return out
}

// Len returns the number of registered domains
func (r *Registry) Len() int {
	return len(r.domains)
}

// validate enforces the domain invariants: a known kind, at least one
// compatible family, at least one of package managers or symlink
// paths, non-empty path lists, and well-formed command templates.
func validate(d types.Domain) error {
	if d.Name == "" {
		return errors.New(errors.ErrCatalogInvalid, "domain with empty name")
	}
	if !d.Kind.Valid() {
		return errors.Newf(errors.ErrCatalogInvalid, "domain %q has unknown kind %q", d.Name, d.Kind)
	}
	if len(d.Families) == 0 {
		return errors.Newf(errors.ErrCatalogInvalid, "domain %q declares no compatible families", d.Name)
	}
	if len(d.PackageManagers) == 0 && len(d.SymlinkPaths) == 0 {
		return errors.Newf(errors.ErrCatalogInvalid,
			"domain %q has neither package managers nor symlink paths", d.Name)
	}
	for family, paths := range d.SymlinkPaths {
		if !d.Supports(family) {
			return errors.Newf(errors.ErrCatalogInvalid,
				"domain %q declares paths for incompatible family %q", d.Name, family)
		}
		if len(paths) == 0 {
			return errors.Newf(errors.ErrCatalogInvalid,
				"domain %q declares an empty path list for family %q", d.Name, family)
		}
		for _, p := range paths {
			if p == "" {
				return errors.Newf(errors.ErrCatalogInvalid,
					"domain %q declares an empty path for family %q", d.Name, family)
			}
		}
	}
	for name, cfg := range d.PackageManagers {
		if cfg.ConfigPath == "" {
			return errors.Newf(errors.ErrCatalogInvalid,
				"manager %q of domain %q has no config path", name, d.Name)
		}
		for role, tmpl := range cfg.Templates() {
			if !types.HasOnePlaceholder(tmpl) {
				return errors.Newf(errors.ErrCatalogInvalid,
					"manager %q of domain %q: %s template must contain exactly one %s placeholder",
					name, d.Name, role, types.Placeholder)
			}
		}
	}
	return nil
}

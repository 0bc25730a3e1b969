package registry

import (
	_ "embed"

	"github.com/pelletier/go-toml/v2"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

//go:embed embedded/domains.toml
var embeddedCatalog []byte

// catalogFile mirrors the TOML catalog layout
type catalogFile struct {
	Domain []domainSpec `toml:"domain"`
}

// domainSpec is the on-disk shape of one domain record. Single-distro
// domains carry a one-element families list.
type domainSpec struct {
	Name            string                 `toml:"name"`
	Kind            string                 `toml:"kind"`
	Families        []string               `toml:"families"`
	PackageManagers map[string]managerSpec `toml:"package_managers"`
	SymlinkPaths    map[string][]string    `toml:"symlink_paths"`
}

type managerSpec struct {
	ConfigPath     string `toml:"config_path"`
	Install        string `toml:"install"`
	Remove         string `toml:"remove"`
	Status         string `toml:"status"`
	DefaultContent string `toml:"default_content"`
}

// Default builds the registry from the embedded catalog
func Default() (*Registry, error) {
	return FromTOML(embeddedCatalog)
}

// FromTOML builds a registry from raw catalog TOML
func FromTOML(data []byte) (*Registry, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse domain catalog")
	}

	domains := make([]types.Domain, 0, len(file.Domain))
	for _, spec := range file.Domain {
		domains = append(domains, spec.toDomain())
	}
	return New(domains)
}

func (s domainSpec) toDomain() types.Domain {
	d := types.Domain{
		Name: s.Name,
		Kind: types.Kind(s.Kind),
	}
	for _, f := range s.Families {
		d.Families = append(d.Families, types.Family(f))
	}
	if len(s.PackageManagers) > 0 {
		d.PackageManagers = make(map[string]types.PackageManagerConfig, len(s.PackageManagers))
		for name, m := range s.PackageManagers {
			d.PackageManagers[name] = types.PackageManagerConfig{
				Name:           name,
				ConfigPath:     m.ConfigPath,
				Install:        m.Install,
				Remove:         m.Remove,
				Status:         m.Status,
				DefaultContent: m.DefaultContent,
			}
		}
	}
	if len(s.SymlinkPaths) > 0 {
		d.SymlinkPaths = make(map[types.Family][]string, len(s.SymlinkPaths))
		for family, paths := range s.SymlinkPaths {
			d.SymlinkPaths[types.Family(family)] = paths
		}
	}
	return d
}

// Package config loads homekeep's own configuration: embedded defaults
// layered under an optional user config file and HOMEKEEP_* environment
// variables, plus the storage-root resolution chain.
package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/homekeep/homekeep/pkg/errors"
)

// AppDirName is the directory name for homekeep-specific files
const AppDirName = "homekeep"

// ConfigFileName is the user configuration file name
const ConfigFileName = "homekeep.toml"

// EnvPrefix namespaces homekeep's environment variables
const EnvPrefix = "HOMEKEEP_"

// Config is the resolved application configuration
type Config struct {
	// StorageRoot is the portable storage tree location; empty means
	// "resolve via git discovery or the XDG data dir"
	StorageRoot string `koanf:"storage_root"`

	// Family overrides OS family detection
	Family string `koanf:"family"`
}

// Load builds the configuration from defaults, the user config file
// and environment variables, in increasing priority
func Load() (*Config, error) {
	return load(UserConfigPath())
}

// LoadFrom is Load with an explicit config file, for tests
func LoadFrom(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configPath)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	return &cfg, nil
}

// UserConfigPath returns the XDG location of the user config file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// ResolveStorageRoot determines the storage root using the following
// priority:
//  1. the explicitly configured root (flag, env or config file)
//  2. the enclosing git repository root, so running homekeep from
//     inside a cloned storage repo just works
//  3. the XDG data directory fallback
//
// The second return reports whether the XDG fallback was used, so the
// CLI can warn about it.
func (c *Config) ResolveStorageRoot() (string, bool, error) {
	if c.StorageRoot != "" {
		root := expandHome(c.StorageRoot)
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve storage root %q", root)
		}
		return abs, false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	return filepath.Join(xdg.DataHome, AppDirName, "storage"), true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return root, nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if home = os.Getenv("HOME"); home == "" {
			return path
		}
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}

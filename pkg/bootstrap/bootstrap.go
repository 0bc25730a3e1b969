// Package bootstrap holds optional per-domain bootstrap capabilities.
// A capability is attached by domain name and invoked explicitly; it
// is deliberately kept out of the registry's data records so the
// catalog stays plain data.
package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/types"
)

// Func prepares a domain's live environment before its first import,
// e.g. seeding a missing rc file
type Func func(ctx context.Context, fsys types.FS, p *paths.Paths) error

var (
	mu           sync.RWMutex
	capabilities = make(map[string]Func)
)

// Register attaches a bootstrap capability to a domain name
func Register(domain string, fn Func) error {
	if domain == "" {
		return errors.New(errors.ErrInvalidInput, "bootstrap domain name cannot be empty")
	}
	if fn == nil {
		return errors.Newf(errors.ErrInvalidInput, "bootstrap for %q is nil", domain)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := capabilities[domain]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "bootstrap for %q is already registered", domain)
	}
	capabilities[domain] = fn
	return nil
}

// MustRegister registers a capability and panics on failure; intended
// for init() where a duplicate is a programming error
func MustRegister(domain string, fn Func) {
	if err := Register(domain, fn); err != nil {
		panic(fmt.Sprintf("failed to register bootstrap for %s: %v", domain, err))
	}
}

// Lookup returns the capability registered for a domain
func Lookup(domain string) (Func, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := capabilities[domain]
	return fn, ok
}

// Run invokes the capability registered for a domain
func Run(ctx context.Context, domain string, fsys types.FS, p *paths.Paths) error {
	fn, ok := Lookup(domain)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "no bootstrap registered for domain %q", domain)
	}
	return fn(ctx, fsys, p)
}

// Registered returns the domain names with capabilities, sorted
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(capabilities))
	for name := range capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

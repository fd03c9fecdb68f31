// Package envstore abstracts process-environment access behind an interface,
// the same way github.com/spf13/afero abstracts the filesystem: production
// code talks to the real process environment, tests substitute a fake one.
package envstore

import (
	"os"
	"sort"
	"strings"
)

// ProcessEnv is the process-environment primitive the core consumes (see
// spec.md §1's "filesystem and process-environment primitives" collaborator
// list). Implementations must be safe only for sequential use; concurrent
// Compose calls must be serialized by the caller.
type ProcessEnv interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Environ() []string
}

// osEnv is the default ProcessEnv, backed by the real process environment.
type osEnv struct{}

func (osEnv) Getenv(key string) string               { return os.Getenv(key) }
func (osEnv) LookupEnv(key string) (string, bool)     { return os.LookupEnv(key) }
func (osEnv) Setenv(key, value string) error          { return os.Setenv(key, value) }
func (osEnv) Environ() []string                       { return os.Environ() }

// OS is the default ProcessEnv backed by the real process environment.
var OS ProcessEnv = osEnv{}

// Keys returns the names of every variable currently set in pe, sorted for
// deterministic iteration.
func Keys(pe ProcessEnv) []string {
	names := make([]string, 0, len(pe.Environ()))
	for _, kv := range pe.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}

// FakeEnv is an in-memory ProcessEnv for tests, the environment-access
// analogue of afero.NewMemMapFs().
type FakeEnv struct {
	vars map[string]string
}

// NewFakeEnv creates a FakeEnv seeded with the given key/value pairs.
func NewFakeEnv(seed map[string]string) *FakeEnv {
	vars := make(map[string]string, len(seed))
	for k, v := range seed {
		vars[k] = v
	}

	return &FakeEnv{vars: vars}
}

func (f *FakeEnv) Getenv(key string) string {
	return f.vars[key]
}

func (f *FakeEnv) LookupEnv(key string) (string, bool) {
	v, ok := f.vars[key]
	return v, ok
}

func (f *FakeEnv) Setenv(key, value string) error {
	f.vars[key] = value
	return nil
}

func (f *FakeEnv) Environ() []string {
	out := make([]string, 0, len(f.vars))
	for k, v := range f.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)

	return out
}

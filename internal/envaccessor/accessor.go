// Package envaccessor implements the typed, registered view over the
// process environment described in spec.md §4.3: reads raise MissingEnvError
// rather than silently returning "", and every key ever registered or
// successfully read is remembered for keys().
package envaccessor

import (
	"sort"

	"github.com/ravendot/tconf/internal/envstore"
)

// Accessor is EnvAccessor (spec §4.3). The zero value is not usable; build
// one with New.
type Accessor struct {
	pe         envstore.ProcessEnv
	registered map[string]bool
}

// New creates an Accessor backed by pe, pre-registering knownKeys (spec
// §4.7's "knownKeys" env option).
func New(pe envstore.ProcessEnv, knownKeys ...string) *Accessor {
	a := &Accessor{pe: pe, registered: make(map[string]bool, len(knownKeys))}
	a.Register(knownKeys...)

	return a
}

// Register adds names to the registered set. Idempotent (spec §3).
func (a *Accessor) Register(names ...string) {
	for _, n := range names {
		a.registered[n] = true
	}
}

// Read returns the value of name, or def if provided and the variable is
// unset, or a *MissingEnvError if neither is available. A successful read
// registers name.
func (a *Accessor) Read(name string, def ...string) (string, error) {
	if v, ok := a.pe.LookupEnv(name); ok {
		a.Register(name)

		return v, nil
	}
	if len(def) > 0 {
		a.Register(name)

		return def[0], nil
	}

	return "", &MissingEnvError{Name: name}
}

// Optional returns the value of name and whether it was set, without
// raising on absence.
func (a *Accessor) Optional(name string) (string, bool) {
	v, ok := a.pe.LookupEnv(name)
	if ok {
		a.Register(name)
	}

	return v, ok
}

// Has reports whether name is a member of registered ∪ keys(process_env)
// (spec §3's EnvAccessor state invariant).
func (a *Accessor) Has(name string) bool {
	if a.registered[name] {
		return true
	}
	_, ok := a.pe.LookupEnv(name)

	return ok
}

// Keys returns the sorted union of registered keys and every key currently
// set in the process environment.
func (a *Accessor) Keys() []string {
	set := make(map[string]bool, len(a.registered))
	for k := range a.registered {
		set[k] = true
	}
	for _, k := range envstore.Keys(a.pe) {
		set[k] = true
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

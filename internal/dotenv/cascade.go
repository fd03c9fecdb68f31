package dotenv

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ravendot/tconf/internal/envstore"
	"github.com/spf13/afero"
)

// Sentinel process-env keys (spec §3).
const (
	// SentinelVars is the comma-separated list of variable names this
	// system has populated into the process environment.
	SentinelVars = "NODE_DOTENV_VARS"
	// SentinelPath records the last base path seen by the cascade,
	// informational only.
	SentinelPath = "NODE_DOTENV_PATH"
)

// CascadeOptions configures a single LoadEnv/BootEnv call (spec §4.2).
type CascadeOptions struct {
	Fs               afero.Fs
	Base             string
	EnvKey           string
	DefaultEnv       string
	TestEnvs         []string
	Override         bool
	EnableCommandSub bool
}

type cascade struct {
	pe               envstore.ProcessEnv
	fs               afero.Fs
	override         bool
	enableCommandSub bool
}

// LoadEnv resolves base into the ordered cascade of files described in
// spec §4.2 and populates the process environment from each in turn.
func LoadEnv(pe envstore.ProcessEnv, opts CascadeOptions) error {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	base := opts.Base
	if base == "" {
		base = ".env"
	}

	c := &cascade{pe: pe, fs: fs, override: opts.Override, enableCommandSub: opts.EnableCommandSub}

	// 1. base, or base.dist if base is absent.
	baseExists, err := existsFile(fs, base)
	if err != nil {
		return err
	}
	if baseExists {
		if err := c.loadFile(base); err != nil {
			return err
		}
	} else {
		distPath := base + ".dist"
		distExists, err := existsFile(fs, distPath)
		if err != nil {
			return err
		}
		if !distExists {
			return &PathError{Path: base, Err: fmt.Errorf("neither %q nor %q exists", base, distPath)}
		}
		if err := c.loadFile(distPath); err != nil {
			return err
		}
	}

	_ = pe.Setenv(SentinelPath, base)

	envKey := opts.EnvKey

	// 2. default the env key if unset.
	if _, ok := pe.LookupEnv(envKey); !ok {
		if err := populate(pe, map[string]string{envKey: opts.DefaultEnv}, opts.Override); err != nil {
			return err
		}
	}

	currentEnv := pe.Getenv(envKey)

	// 3. base.local, unless the resolved env is a test env.
	if !containsString(opts.TestEnvs, currentEnv) {
		if err := c.loadFile(base + ".local"); err != nil {
			return err
		}
	}

	// 4. "local" stops the cascade here.
	if currentEnv == "local" {
		return nil
	}

	// 5. base.<env>
	if err := c.loadFile(base + "." + currentEnv); err != nil {
		return err
	}

	// 6. base.<env>.local
	return c.loadFile(base + "." + currentEnv + ".local")
}

// BootEnv runs LoadEnv and then assigns a debug-mode flag if debugKey is
// set and currently unset in the process environment (spec §4.2).
func BootEnv(pe envstore.ProcessEnv, opts CascadeOptions, debugKey string, prodEnvs []string) error {
	if err := LoadEnv(pe, opts); err != nil {
		return err
	}

	if debugKey == "" {
		return nil
	}
	if _, ok := pe.LookupEnv(debugKey); ok {
		// Pre-existing value stands; callers interpret it via ParseBoolish.
		return nil
	}

	value := "1"
	if containsString(prodEnvs, pe.Getenv(opts.EnvKey)) {
		value = "0"
	}

	return populate(pe, map[string]string{debugKey: value}, opts.Override)
}

// ParseBoolish implements the boolean cast spec §4.2 documents for
// interpreting a pre-existing debug-key value: "1"/"true"/"yes"/"on" are
// true; "0"/"false"/"no"/"off"/"" are false; any other non-empty string is
// true.
func ParseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off", "":
		return false
	default:
		return true
	}
}

// loadFile parses path (a no-op if it does not exist) and populates the
// process environment from it.
func (c *cascade) loadFile(path string) error {
	text, ok, err := readIfExists(c.fs, path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	pe := c.pe
	values, err := Parse(text, path, ParseOptions{
		Env: pe,
		LoadedByUs: func(name string) bool {
			return loadedSet(pe)[name]
		},
		EnableCommandSub: c.enableCommandSub,
	})
	if err != nil {
		return err
	}

	return populate(pe, values, c.override)
}

// populate writes values into the process environment following spec
// §4.2's populate(values, override) rule: a key is written when override
// is true, when it is already a member of the loaded-by-us sentinel set,
// or when it is currently unset. Every key actually written is added to
// the sentinel.
func populate(pe envstore.ProcessEnv, values map[string]string, override bool) error {
	if len(values) == 0 {
		return nil
	}

	set := loadedSet(pe)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var written []string
	for _, k := range keys {
		_, exists := pe.LookupEnv(k)
		if override || set[k] || !exists {
			if err := pe.Setenv(k, values[k]); err != nil {
				return err
			}
			written = append(written, k)
		}
	}

	if len(written) > 0 {
		addToSentinel(pe, written...)
	}

	return nil
}

// LoadedNames returns the sorted list of variable names the cascade has
// recorded as loaded-by-us, i.e. the contents of NODE_DOTENV_VARS.
func LoadedNames(pe envstore.ProcessEnv) []string {
	set := loadedSet(pe)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func loadedSet(pe envstore.ProcessEnv) map[string]bool {
	raw, _ := pe.LookupEnv(SentinelVars)
	set := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = true
		}
	}

	return set
}

func addToSentinel(pe envstore.ProcessEnv, names ...string) {
	set := loadedSet(pe)
	changed := false
	for _, n := range names {
		if !set[n] {
			set[n] = true
			changed = true
		}
	}
	if !changed {
		return
	}

	all := make([]string, 0, len(set))
	for n := range set {
		all = append(all, n)
	}
	sort.Strings(all)
	_ = pe.Setenv(SentinelVars, strings.Join(all, ","))
}

func existsFile(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}
	if info.IsDir() {
		return false, &PathError{Path: path, Err: errors.New("is a directory")}
	}

	return true, nil
}

func readIfExists(fs afero.Fs, path string) (string, bool, error) {
	exists, err := existsFile(fs, path)
	if err != nil || !exists {
		return "", false, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", false, err
	}

	return string(data), true, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}

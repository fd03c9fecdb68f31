// Package tconf composes a validated configuration value from layered
// sources — inline defaults, structured files (JSON, YAML, INI), and
// environment-variable substitution — while bootstrapping process-visible
// environment variables from a family of .env files following a
// Symfony-compatible precedence cascade.
//
// Basic usage:
//
//	type Config struct {
//	    Host string `yaml:"host" validate:"required"`
//	    Port int    `yaml:"port" validate:"required"`
//	}
//
//	result, err := tconf.Compose(tconf.NewStructSchema[Config](), tconf.Options{
//	    Sources: []tconf.Source{tconf.FilePath("config.yaml")},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg := result.Config
package tconf

import (
	"errors"
	"path/filepath"

	"github.com/ravendot/tconf/internal/dotenv"
	"github.com/ravendot/tconf/internal/envaccessor"
	"github.com/ravendot/tconf/internal/envstore"
	"github.com/ravendot/tconf/internal/placeholder"
	"github.com/ravendot/tconf/internal/sourceloader"
	"github.com/ravendot/tconf/internal/tree"
	"github.com/spf13/afero"
)

// EnvOption configures env-cascade loading (spec §6's "Env option").
type EnvOption struct {
	// Path is the cascade base path. Defaults to ".env".
	Path string
	// EnvKey names the process-env variable that selects the active
	// environment. Defaults to "NODE_ENV".
	EnvKey string
	// DebugKey, if set, is assigned via bootEnv's debug-flag rule (spec
	// §4.2). Left empty, no debug key is touched.
	DebugKey string
	// DefaultEnv is assigned to EnvKey when it is unset. Defaults to "dev".
	DefaultEnv string
	// TestEnvs suppresses base.local loading when the active env is a
	// member. Defaults to ["test"].
	TestEnvs []string
	// ProdEnvs controls bootEnv's debug-key default (spec §4.2).
	ProdEnvs []string
	// OverrideExisting makes the cascade overwrite process-env keys outside
	// the loaded-by-us sentinel set. Defaults to false.
	OverrideExisting bool
	// Optional tolerates a missing base file (and base.dist) instead of
	// raising a PathError. Defaults to true.
	Optional *bool
	// Environment, if non-empty, is force-assigned to EnvKey before the
	// cascade runs.
	Environment string
	// KnownKeys are pre-registered on the resulting EnvAccessor.
	KnownKeys []string
	// EnableCommandSub allows dotenv $(...) command substitution.
	EnableCommandSub bool
}

// Options configures a single Compose call (spec §4.7, §6).
type Options struct {
	// Cwd is the working directory sources and the env cascade resolve
	// relative paths against. Defaults to ".".
	Cwd string
	// Fs is the filesystem sources and the env cascade are read from.
	// Defaults to DefaultFs.
	Fs afero.Fs
	// ProcessEnv abstracts process-environment access for testing. Defaults
	// to the real process environment.
	ProcessEnv envstore.ProcessEnv
	// Defaults, when present, seeds the accumulator before any Source is
	// merged in (spec §4.7 step 3). Must be a plain object.
	Defaults map[string]any
	// Sources are merged left-to-right into the accumulator (spec §4.7
	// step 4, §5's "strictly left-to-right" ordering).
	Sources []Source
	// Env configures the dotenv cascade. Nil disables it; a non-nil
	// pointer enables it even if its fields are all zero. Omitting the
	// option does not turn the cascade on, and EnvOption has no separate
	// enabled flag.
	Env *EnvOption
}

// Result is the composer's output: the validated, typed configuration plus
// the accessor used to resolve any %env()% placeholders (spec §4.7 step 6:
// "{config, env: accessor}").
type Result[T any] struct {
	Config T
	Env    *envaccessor.Accessor
}

// Compose is ConfigComposer (spec §4.7): it runs the env cascade (if
// enabled), loads and merges every source onto Options.Defaults, resolves
// %env()% placeholders, and validates the result against schema.
func Compose[T any](schema Schema[T], opts Options) (*Result[T], error) {
	if schema == nil {
		return nil, &ConfigError{Message: "schema must not be nil"}
	}

	cwd := opts.Cwd
	if cwd == "" {
		cwd = "."
	}

	fs := opts.Fs
	if fs == nil {
		fs = DefaultFs
	}

	pe := opts.ProcessEnv
	if pe == nil {
		pe = envstore.OS
	}

	accessor, err := buildAccessor(pe, fs, cwd, opts.Env)
	if err != nil {
		return nil, err
	}

	accumulator := map[string]any{}
	if opts.Defaults != nil {
		accumulator = sourceloader.LoadInline(opts.Defaults)
	}

	loader := sourceloader.New(fs, cwd)
	for _, src := range opts.Sources {
		var next map[string]any
		switch src.kind {
		case sourceKindInline:
			next = src.inline
		case sourceKindFile:
			next, err = loader.LoadFile(src.record)
			if err != nil {
				return nil, err
			}
		}
		if next == nil {
			continue
		}

		accumulator = tree.Merge(accumulator, next).(map[string]any)
	}

	resolved, err := placeholder.Resolve(accumulator, accessor)
	if err != nil {
		return nil, err
	}

	config, err := schema.SafeParse(resolved.(map[string]any))
	if err != nil {
		return nil, err
	}

	return &Result[T]{Config: config, Env: accessor}, nil
}

// buildAccessor implements spec §4.7 step 2: construct the accessor seeded
// with knownKeys, register every current process-env key, run the cascade
// (catching *Path* only when optional), then register the sentinel list and
// the env key.
func buildAccessor(pe envstore.ProcessEnv, fs afero.Fs, cwd string, env *EnvOption) (*envaccessor.Accessor, error) {
	var knownKeys []string
	if env != nil {
		knownKeys = env.KnownKeys
	}

	accessor := envaccessor.New(pe, knownKeys...)
	accessor.Register(envstore.Keys(pe)...)

	if env == nil {
		return accessor, nil
	}

	base := env.Path
	if base == "" {
		base = ".env"
	}
	if !filepath.IsAbs(base) {
		base = filepath.Join(cwd, base)
	}

	envKey := env.EnvKey
	if envKey == "" {
		envKey = "NODE_ENV"
	}

	if env.Environment != "" {
		if err := pe.Setenv(envKey, env.Environment); err != nil {
			return nil, &ConfigError{Message: "forcing environment", Err: err}
		}
	}

	defaultEnv := env.DefaultEnv
	if defaultEnv == "" {
		defaultEnv = "dev"
	}

	testEnvs := env.TestEnvs
	if testEnvs == nil {
		testEnvs = []string{"test"}
	}

	optional := true
	if env.Optional != nil {
		optional = *env.Optional
	}

	cascadeOpts := dotenv.CascadeOptions{
		Fs:               fs,
		Base:             base,
		EnvKey:           envKey,
		DefaultEnv:       defaultEnv,
		TestEnvs:         testEnvs,
		Override:         env.OverrideExisting,
		EnableCommandSub: env.EnableCommandSub,
	}

	var loadErr error
	if env.DebugKey != "" {
		loadErr = dotenv.BootEnv(pe, cascadeOpts, env.DebugKey, env.ProdEnvs)
	} else {
		loadErr = dotenv.LoadEnv(pe, cascadeOpts)
	}

	if loadErr != nil {
		var pathErr *dotenv.PathError
		if optional && errors.As(loadErr, &pathErr) {
			return accessor, nil
		}

		return nil, loadErr
	}

	accessor.Register(dotenv.LoadedNames(pe)...)
	accessor.Register(envKey)

	return accessor, nil
}

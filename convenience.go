package tconf

// LoadFile is a one-shot convenience wrapper around Compose for the common
// case of a single configuration file validated against a struct schema,
// mirroring the teacher's package-level LoadFile/MustLoadFile functions.
func LoadFile[T any](path string, opts ...func(*Options)) (T, error) {
	o := Options{Sources: []Source{FilePath(path)}}
	for _, opt := range opts {
		opt(&o)
	}

	result, err := Compose[T](NewStructSchema[T](), o)
	if err != nil {
		var zero T

		return zero, err
	}

	return result.Config, nil
}

// MustLoadFile is like LoadFile but panics on error. Useful for
// package-level variable initialization.
func MustLoadFile[T any](path string, opts ...func(*Options)) T {
	cfg, err := LoadFile[T](path, opts...)
	if err != nil {
		panic("tconf: " + err.Error())
	}

	return cfg
}

// WithEnv is an Options-mutating helper for LoadFile/MustLoadFile callers
// who want the env cascade enabled without building Options by hand.
func WithEnv(env EnvOption) func(*Options) {
	return func(o *Options) {
		o.Env = &env
	}
}

// WithDefaults seeds Options.Defaults for LoadFile/MustLoadFile callers.
func WithDefaults(defaults map[string]any) func(*Options) {
	return func(o *Options) {
		o.Defaults = defaults
	}
}

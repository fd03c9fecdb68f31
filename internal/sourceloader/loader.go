// Package sourceloader implements SourceLoader (spec.md §4.4): given a
// source descriptor it produces a plain object tree, or nothing for an
// absent optional file. It never performs placeholder substitution; that is
// internal/placeholder's job.
package sourceloader

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Format is a recognized configuration file format (spec §6).
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatINI  Format = "ini"
)

// Record is FileRecord (spec §3): a path, an optional explicit format
// (inferred from the extension when empty), and whether a missing file is
// tolerated.
type Record struct {
	Path     string
	Format   Format
	Optional bool
}

// Loader is SourceLoader, bound to a filesystem and working directory.
type Loader struct {
	Fs  afero.Fs
	Cwd string
}

// New creates a Loader. A nil fs defaults to the real OS filesystem.
func New(fs afero.Fs, cwd string) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Loader{Fs: fs, Cwd: cwd}
}

// LoadFile resolves rec relative to l.Cwd and decodes it per spec §4.4. A
// nil, nil return means the file was absent and optional.
func (l *Loader) LoadFile(rec Record) (map[string]any, error) {
	path := rec.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Cwd, path)
	}

	format := rec.Format
	if format == "" {
		var ok bool
		format, ok = inferFormat(rec.Path)
		if !ok {
			return nil, &ParseError{Path: rec.Path, Err: errUnknownFormat(rec.Path)}
		}
	}

	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		if rec.Optional {
			return nil, nil
		}

		return nil, &FileNotFoundError{Path: rec.Path}
	}

	var tree any
	switch format {
	case FormatJSON:
		tree, err = decodeJSON(data)
	case FormatYAML:
		tree, err = decodeYAML(data)
	case FormatINI:
		tree, err = decodeINI(data)
	default:
		return nil, &ParseError{Path: rec.Path, Err: errUnknownFormat(rec.Path)}
	}
	if err != nil {
		return nil, &ParseError{Path: rec.Path, Err: err}
	}

	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: rec.Path, Err: errRootNotObject()}
	}

	return obj, nil
}

// LoadInline defensively clones an inline tree (spec §4.4's *Inline*
// variant). The caller is responsible for ensuring v is a plain object.
func LoadInline(v map[string]any) map[string]any {
	return cloneValue(v).(map[string]any)
}

func inferFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".ini":
		return FormatINI, true
	default:
		return "", false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}

		return out
	default:
		return t
	}
}

package sourceloader

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	return New(fs, "/cwd")
}

func TestLoadFile_JSON(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/config.json": `{"database":{"host":"A","port":1}}`})

	tree, err := l.LoadFile(Record{Path: "config.json"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"database": map[string]any{"host": "A", "port": 1.0}}, tree)
}

func TestLoadFile_YAML(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/config.yaml": "database:\n  host: A\n  port: 1\n"})

	tree, err := l.LoadFile(Record{Path: "config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"database": map[string]any{"host": "A", "port": 1.0}}, tree)
}

func TestLoadFile_INI(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/config.ini": "GLOBAL=1\n\n[database]\nhost=A\nport=1\n"})

	tree, err := l.LoadFile(Record{Path: "config.ini"})
	require.NoError(t, err)
	assert.Equal(t, "1", tree["GLOBAL"])
	assert.Equal(t, map[string]any{"host": "A", "port": "1"}, tree["database"])
}

func TestLoadFile_MissingRequiredIsFileNotFound(t *testing.T) {
	l := newLoader(t, nil)

	_, err := l.LoadFile(Record{Path: "absent.json"})
	var fnf *FileNotFoundError
	require.ErrorAs(t, err, &fnf)
}

func TestLoadFile_MissingOptionalReturnsNil(t *testing.T) {
	l := newLoader(t, nil)

	tree, err := l.LoadFile(Record{Path: "absent.json", Optional: true})
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestLoadFile_NonObjectRootIsParseError(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/list.json": `[1,2,3]`})

	_, err := l.LoadFile(Record{Path: "list.json"})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoadFile_UnknownExtensionIsParseError(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/config.toml": `a = 1`})

	_, err := l.LoadFile(Record{Path: "config.toml"})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoadFile_ExplicitFormatOverridesExtension(t *testing.T) {
	l := newLoader(t, map[string]string{"/cwd/config.txt": `{"a":1}`})

	tree, err := l.LoadFile(Record{Path: "config.txt", Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, tree)
}

func TestLoadInline_ClonesDefensively(t *testing.T) {
	original := map[string]any{"a": map[string]any{"b": 1}}

	clone := LoadInline(original)
	clone["a"].(map[string]any)["b"] = 2

	assert.Equal(t, 1, original["a"].(map[string]any)["b"])
}

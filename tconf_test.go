package tconf_test

import (
	"testing"

	"github.com/ravendot/tconf"
	"github.com/ravendot/tconf/internal/envstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type databaseConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required"`
}

type appConfig struct {
	Database databaseConfig `yaml:"database"`
}

func TestCompose_ScenarioOne_JSONPlusInlineOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cwd/config.json", []byte(`{"database":{"host":"A","port":1}}`), 0o644))

	result, err := tconf.Compose[appConfig](tconf.NewStructSchema[appConfig](), tconf.Options{
		Fs:  fs,
		Cwd: "/cwd",
		Sources: []tconf.Source{
			tconf.FilePath("config.json"),
			tconf.Inline(map[string]any{"database": map[string]any{"port": 2}}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", result.Config.Database.Host)
	assert.Equal(t, 2, result.Config.Database.Port)
}

func TestCompose_ScenarioTwo_YAMLPlusEnvCascade(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cwd/.env", []byte("ENV=dev\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cwd/.env.dev.local", []byte("DB_HOST=from-env-prod-local\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cwd/config.yaml", []byte("database:\n  host: \"%env(DB_HOST)%\"\n  port: 1\n"), 0o644))

	pe := envstore.NewFakeEnv(nil)
	result, err := tconf.Compose[appConfig](tconf.NewStructSchema[appConfig](), tconf.Options{
		Fs:         fs,
		Cwd:        "/cwd",
		ProcessEnv: pe,
		Sources:    []tconf.Source{tconf.FilePath("config.yaml")},
		Env:        &tconf.EnvOption{EnvKey: "ENV"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env-prod-local", result.Config.Database.Host)
}

func TestCompose_ScenarioFour_OptionalMissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	pe := envstore.NewFakeEnv(map[string]string{"KEY": "value"})

	type cfg struct {
		Key string `yaml:"key" validate:"required"`
	}

	result, err := tconf.Compose[cfg](tconf.NewStructSchema[cfg](), tconf.Options{
		Fs:         fs,
		Cwd:        "/cwd",
		ProcessEnv: pe,
		Sources: []tconf.Source{
			tconf.FileRecord("absent.json", tconf.FormatJSON, true),
			tconf.Inline(map[string]any{"key": "%env(KEY)%"}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "value", result.Config.Key)
}

func TestCompose_RequiredSourceMissingIsFileNotFoundError(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := tconf.Compose[appConfig](tconf.NewStructSchema[appConfig](), tconf.Options{
		Fs:      fs,
		Cwd:     "/cwd",
		Sources: []tconf.Source{tconf.FilePath("missing.json")},
	})

	var fnf *tconf.ConfigFileNotFoundError
	require.ErrorAs(t, err, &fnf)
}

func TestCompose_ValidationFailureReturnsIssueList(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := tconf.Compose[appConfig](tconf.NewStructSchema[appConfig](), tconf.Options{
		Fs:  fs,
		Cwd: "/cwd",
		Sources: []tconf.Source{
			tconf.Inline(map[string]any{"database": map[string]any{"host": "A"}}),
		},
	})

	var validationErr *tconf.ConfigValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Issues)
}

func TestCompose_DefaultsSeedAccumulatorBeforeSources(t *testing.T) {
	fs := afero.NewMemMapFs()

	result, err := tconf.Compose[appConfig](tconf.NewStructSchema[appConfig](), tconf.Options{
		Fs:       fs,
		Cwd:      "/cwd",
		Defaults: map[string]any{"database": map[string]any{"host": "default-host", "port": 5432}},
		Sources:  []tconf.Source{tconf.Inline(map[string]any{"database": map[string]any{"port": 5433}})},
	})
	require.NoError(t, err)
	assert.Equal(t, "default-host", result.Config.Database.Host)
	assert.Equal(t, 5433, result.Config.Database.Port)
}

func TestLoadFile_ConvenienceWrapper(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cwd/config.json", []byte(`{"database":{"host":"A","port":1}}`), 0o644))
	tconf.SetDefaultFs(fs)
	defer tconf.ResetDefaultFs()

	cfg, err := tconf.LoadFile[appConfig]("/cwd/config.json")
	require.NoError(t, err)
	assert.Equal(t, "A", cfg.Database.Host)
}

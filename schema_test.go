package tconf_test

import (
	"testing"

	"github.com/ravendot/tconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Count int    `yaml:"count" validate:"gte=1"`
}

func TestStructSchema_SafeParse_Success(t *testing.T) {
	schema := tconf.NewStructSchema[widgetConfig]()

	cfg, err := schema.SafeParse(map[string]any{"name": "widget", "count": 3})
	require.NoError(t, err)
	assert.Equal(t, widgetConfig{Name: "widget", Count: 3}, cfg)
}

func TestStructSchema_SafeParse_ValidationFailure(t *testing.T) {
	schema := tconf.NewStructSchema[widgetConfig]()

	_, err := schema.SafeParse(map[string]any{"name": "widget", "count": 0})
	var validationErr *tconf.ConfigValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Issues)
}

// fixedSchema is a minimal non-struct Schema[T] implementation, showing the
// collaborator interface spec.md §1 describes (safeParse(value) -> {ok,
// data} | {err, issues}) can be satisfied without reflection or struct tags.
type fixedSchema struct {
	value int
}

func (f fixedSchema) SafeParse(map[string]any) (int, error) {
	return f.value, nil
}

func TestSchema_CustomImplementation(t *testing.T) {
	cfg, err := tconf.Compose[int](fixedSchema{value: 42}, tconf.Options{
		Sources: []tconf.Source{tconf.Inline(map[string]any{"ignored": true})},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Config)
}

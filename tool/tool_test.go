package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teascout/teascout/types"
)

func TestNew(t *testing.T) {
	t.Run("rejects non-functions", func(t *testing.T) {
		_, err := New("not a function")
		require.Error(t, err)
	})

	t.Run("derives name from function", func(t *testing.T) {
		def, err := New(func(lat, lng float64) string { return "" })
		require.NoError(t, err)
		assert.NotEmpty(t, def.Name)
	})

	t.Run("applies options", func(t *testing.T) {
		def, err := New(
			func(query string) string { return "" },
			Name("search_text"),
			Description("free text place search"),
			Parameters("query"),
		)
		require.NoError(t, err)
		assert.Equal(t, "search_text", def.Name)
		assert.Equal(t, "free text place search", def.Description)
		assert.Equal(t, map[string]string{"param0": "query"}, def.Parameters)
	})
}

func TestMust(t *testing.T) {
	assert.Panics(t, func() { Must(42) })
	assert.NotPanics(t, func() { Must(func() {}) })
}

func TestToNameAndSchema(t *testing.T) {
	t.Run("named parameters become properties", func(t *testing.T) {
		def := Must(
			func(lat, lng float64, radius int) string { return "" },
			Name("search_nearby"),
			Parameters("latitude", "longitude", "radius_meters"),
		)

		name, schema := def.ToNameAndSchema()
		assert.Equal(t, "search_nearby", name)
		require.NotNil(t, schema.Properties)

		assert.Equal(t, []string{"latitude", "longitude", "radius_meters"}, schema.Required)
		_, ok := schema.Properties.Get("latitude")
		assert.True(t, ok)
		_, ok = schema.Properties.Get("radius_meters")
		assert.True(t, ok)
	})

	t.Run("context vars are skipped", func(t *testing.T) {
		def := Must(
			func(cv types.ContextVars, query string) string { return "" },
			Name("with_context"),
			Parameters("vars", "query"),
		)

		_, schema := def.ToNameAndSchema()
		assert.Equal(t, []string{"query"}, schema.Required)
		_, ok := schema.Properties.Get("query")
		assert.True(t, ok)
	})

	t.Run("no parameters yields empty schema", func(t *testing.T) {
		def := Must(func() string { return "" }, Name("noop"))
		_, schema := def.ToNameAndSchema()
		assert.Empty(t, schema.Required)
	})
}

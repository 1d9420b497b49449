package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/threadcell/pkg/threadcell"
	"github.com/loomworks/threadcell/pkg/threadcell/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := config.New(tt.data)
			assert.NotNil(t, d.Raw())
		})
	}
}

func TestDefaultsAccessors(t *testing.T) {
	d := config.New(map[string]any{"b": 2, "a": 1})

	assert.True(t, d.Has("a"))
	assert.False(t, d.Has("c"))
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"a", "b"}, d.Keys())
}

func TestFromYAML(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := config.FromYAML([]byte("timeout: 30\ngreeting: hello\nverbose: true\n"))
		require.NoError(t, err)

		assert.Equal(t, 3, d.Len())
		assert.Equal(t, 30, d.Raw()["timeout"])
		assert.Equal(t, "hello", d.Raw()["greeting"])
		assert.Equal(t, true, d.Raw()["verbose"])
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := config.FromYAML([]byte("{not yaml: ["))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse yaml")
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := config.FromJSON([]byte(`{"timeout": 30, "greeting": "hello"}`))
		require.NoError(t, err)

		assert.Equal(t, float64(30), d.Raw()["timeout"])
		assert.Equal(t, "hello", d.Raw()["greeting"])
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := config.FromJSON([]byte(`{bad`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse json")
	})
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "defaults.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: 30\n"), 0o644))

		d, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 30, d.Raw()["timeout"])
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "defaults.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"timeout": 30}`), 0o644))

		d, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, float64(30), d.Raw()["timeout"])
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "defaults.toml")
		require.NoError(t, os.WriteFile(path, []byte("timeout = 30"), 0o644))

		_, err := config.FromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	reg := threadcell.NewRegistry[string, any]()

	d, err := config.FromYAML([]byte("timeout: 30\ngreeting: hello\n"))
	require.NoError(t, err)
	require.NoError(t, config.Seed(reg, d))

	assert.Equal(t, 2, reg.Len())

	v, ok := reg.Default("timeout")
	require.True(t, ok)
	assert.Equal(t, 30, v)

	v, ok = reg.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	// Seeded defaults behave like any other default: per-goroutine
	// overrides shadow them without changing them.
	reg.Set("timeout", 5)
	v, _ = reg.Get("timeout")
	assert.Equal(t, 5, v)
	v, _ = reg.Default("timeout")
	assert.Equal(t, 30, v)
}

func TestSeedRebinds(t *testing.T) {
	reg := threadcell.NewRegistry[string, any]()
	reg.Set("timeout", 99)

	require.NoError(t, config.Seed(reg, config.New(map[string]any{"timeout": 30})))

	// Seeding rebinds the key, so the stale override is gone.
	v, ok := reg.Get("timeout")
	require.True(t, ok)
	assert.Equal(t, 30, v)
}

package userconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Mirrors)
	assert.Empty(t, cfg.Timeout)
	assert.Empty(t, cfg.Strategy)
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `mirrors = ["https://a.example/versions.toml", "https://b.example/versions.toml"]
timeout = "5s"
strategy = "race"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/versions.toml", "https://b.example/versions.toml"}, cfg.Mirrors)
	assert.Equal(t, "race", cfg.Strategy)

	d, ok := cfg.TimeoutDuration()
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
}

func TestLoadInvalidFile(t *testing.T) {
	tests := map[string]string{
		"bad toml":     "this is not valid toml [[[",
		"bad timeout":  `timeout = "soon"`,
		"bad strategy": `strategy = "roundrobin"`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := loadFromPath(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")

	cfg := &Config{
		Mirrors:  []string{"https://mirror.example/versions.toml"},
		Timeout:  "750ms",
		Strategy: "sequential",
	}
	require.NoError(t, cfg.saveToPath(path))

	loaded, err := loadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveOmitsUnsetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, (&Config{Strategy: "race"}).saveToPath(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `strategy = "race"`)
	assert.NotContains(t, string(data), "mirrors")
	assert.NotContains(t, string(data), "timeout")
}

func TestGetSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("mirrors", "https://a/v.toml, https://b/v.toml"))
	require.NoError(t, cfg.Set("TIMEOUT", "2s"))
	require.NoError(t, cfg.Set("strategy", "Concurrent"))

	v, ok := cfg.Get("mirrors")
	assert.True(t, ok)
	assert.Equal(t, "https://a/v.toml,https://b/v.toml", v)

	v, _ = cfg.Get("timeout")
	assert.Equal(t, "2s", v)

	v, _ = cfg.Get("strategy")
	assert.Equal(t, "race", v, "aliases are stored in canonical form")

	_, ok = cfg.Get("telemetry")
	assert.False(t, ok)
}

func TestSetClearsWithEmptyValue(t *testing.T) {
	cfg := &Config{Timeout: "2s", Strategy: "race", Mirrors: []string{"https://a/v.toml"}}

	for _, key := range SortedKeys() {
		require.NoError(t, cfg.Set(key, ""))
	}
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSetInvalid(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Set("timeout", "forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")

	err = cfg.Set("strategy", "roundrobin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")

	err = cfg.Set("color", "blue")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unknown config key"))
}

func TestTimeoutDurationClamped(t *testing.T) {
	d, ok := (&Config{Timeout: "1ns"}).TimeoutDuration()
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, d)

	_, ok = DefaultConfig().TimeoutDuration()
	assert.False(t, ok)
}

func TestAvailableKeys(t *testing.T) {
	assert.Equal(t, []string{"mirrors", "strategy", "timeout"}, SortedKeys())
	for _, k := range SortedKeys() {
		assert.NotEmpty(t, AvailableKeys()[k])
	}
}

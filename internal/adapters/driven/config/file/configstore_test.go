package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".memoria", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := setupConfig(t)

	require.NoError(t, store.Set("default_threshold", 0.8))

	val, ok := store.Get("default_threshold")
	assert.True(t, ok)
	assert.Equal(t, 0.8, val)

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := setupConfig(t)

	require.NoError(t, store.Set("data_dir", "/var/tm"))
	require.NoError(t, store.Set("max_results", 7))
	require.NoError(t, store.Set("default_threshold", 0.85))
	require.NoError(t, store.Set("track_usage", true))

	assert.Equal(t, "/var/tm", store.GetString("data_dir"))
	assert.Equal(t, 7, store.GetInt("max_results"))
	assert.Equal(t, 0.85, store.GetFloat("default_threshold"))
	assert.True(t, store.GetBool("track_usage"))

	// Missing keys fall back to zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))

	// Type mismatches do too.
	assert.Equal(t, "", store.GetString("max_results"))
	assert.Equal(t, 0, store.GetInt("data_dir"))
}

func TestConfigStore_GetFloat_FromInt(t *testing.T) {
	store := setupConfig(t)

	// An integer threshold in the file still reads as a float.
	require.NoError(t, store.Set("default_threshold", 1))
	require.NoError(t, store.Load())

	assert.Equal(t, 1.0, store.GetFloat("default_threshold"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := setupConfig(t)

	require.NoError(t, store.Set("stores", []string{"project", "shared"}))
	assert.Equal(t, []string{"project", "shared"}, store.GetStringSlice("stores"))

	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("stores", []string{"project", "shared"}))
	require.NoError(t, store.Set("max_results", 3))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"project", "shared"}, reopened.GetStringSlice("stores"))
	assert.Equal(t, 3, reopened.GetInt("max_results"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `data_dir = "/var/tm"

[search]
threshold = 0.9
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/var/tm", store.GetString("data_dir"))
	assert.Equal(t, 0.9, store.GetFloat("search.threshold"))
}

func TestConfigStore_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

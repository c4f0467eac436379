package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[engine\nbroken = "), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_NestedTablesFlatten(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
identity_anchor = "slack"
adapter_timeout = "5s"
max_concurrency = 4

[engine.health]
degraded_after = 2

[server]
allowed_origins = ["https://app.example.com"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "slack", store.GetString("engine.identity_anchor"))
	assert.Equal(t, 5*time.Second, store.GetDuration("engine.adapter_timeout"))
	assert.Equal(t, 4, store.GetInt("engine.max_concurrency"))
	assert.Equal(t, 2, store.GetInt("engine.health.degraded_after"))
	assert.Equal(t, []string{"https://app.example.com"}, store.GetStringSlice("server.allowed_origins"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "text"))

	assert.Equal(t, 0, store.GetInt("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
	assert.Zero(t, store.GetDuration("k"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("text", "750ms"))
	require.NoError(t, store.Set("secs", int64(3)))
	require.NoError(t, store.Set("typed", 2*time.Second))

	assert.Equal(t, 750*time.Millisecond, store.GetDuration("text"))
	assert.Equal(t, 3*time.Second, store.GetDuration("secs"))
	assert.Equal(t, 2*time.Second, store.GetDuration("typed"))
}

func TestConfigStore_SaveReload_PreservesData(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("engine.identity_anchor", "github"))
	require.NoError(t, store.Set("engine.health.recover_after", int64(4)))
	require.NoError(t, store.Set("engine.rank_timeout", 6*time.Second))
	require.NoError(t, store.Set("ai.provider", "ollama"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "github", reopened.GetString("engine.identity_anchor"))
	assert.Equal(t, 4, reopened.GetInt("engine.health.recover_after"))
	assert.Equal(t, 6*time.Second, reopened.GetDuration("engine.rank_timeout"))
	assert.Equal(t, "ollama", reopened.GetString("ai.provider"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[engine.health]")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes differ on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("server.jwt_secret", "s3cret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("engine.max_concurrency", int64(n))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("engine.max_concurrency")
		}()
	}
	wg.Wait()
}

func TestConfigStore_Delete_Persists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("engine.adapter_timeout", "5s"))
	require.NoError(t, store.Set("engine.rank_timeout", "4s"))

	require.NoError(t, store.Delete("engine.adapter_timeout"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok := reloaded.Get("engine.adapter_timeout")
	assert.False(t, ok)
	assert.Equal(t, 4*time.Second, reloaded.GetDuration("engine.rank_timeout"))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SERCHA_ENGINE_ADAPTER_TIMEOUT", EnvName("engine.adapter_timeout"))
	assert.Equal(t, "SERCHA_AI_API_KEY", EnvName("ai.api-key"))
}

func TestConfigStore_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
identity_anchor = "gmail"
max_concurrency = 4

[server]
allowed_origins = ["https://file.example"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))
	t.Setenv("SERCHA_ENGINE_IDENTITY_ANCHOR", "slack")
	t.Setenv("SERCHA_ENGINE_MAX_CONCURRENCY", "9")
	t.Setenv("SERCHA_ENGINE_RANK_TIMEOUT", "750ms")
	t.Setenv("SERCHA_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SERCHA_AI_ENABLED", "true")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "slack", store.GetString("engine.identity_anchor"))
	assert.Equal(t, 9, store.GetInt("engine.max_concurrency"))
	assert.Equal(t, 750*time.Millisecond, store.GetDuration("engine.rank_timeout"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, store.GetStringSlice("server.allowed_origins"))
	assert.True(t, store.GetBool("ai.enabled"))
}

func TestConfigStore_EnvOverrideNotPersisted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	t.Setenv("SERCHA_ENGINE_IDENTITY_ANCHOR", "slack")

	require.NoError(t, store.Set("engine.max_concurrency", int64(3)))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "slack")
	assert.Contains(t, string(data), "max_concurrency = 3")
}

func TestConfigStore_EmptyEnvIgnored(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("engine.identity_anchor", "notion"))
	t.Setenv("SERCHA_ENGINE_IDENTITY_ANCHOR", "")

	assert.Equal(t, "notion", store.GetString("engine.identity_anchor"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERCHA_TEST_FROM_DOTENV=fromfile\nSERCHA_TEST_PRESET=fromfile\n"), 0600))
	t.Setenv("SERCHA_TEST_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("SERCHA_TEST_FROM_DOTENV") })

	require.NoError(t, LoadEnvFile(dir))

	assert.Equal(t, "fromfile", os.Getenv("SERCHA_TEST_FROM_DOTENV"))
	assert.Equal(t, "process", os.Getenv("SERCHA_TEST_PRESET"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(t.TempDir()))
}

func TestResolveDir(t *testing.T) {
	got, err := ResolveDir("/tmp/sercha")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sercha", got)

	got, err = ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, ".sercha", filepath.Base(got))
}

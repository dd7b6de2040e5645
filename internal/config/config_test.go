package config

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every STITCHSYNC_ env var that Load() reads.
var allConfigKeys = []string{
	"STITCHSYNC_ACCESS_TOKEN",
	"STITCHSYNC_LISTEN_ADDR",
	"STITCHSYNC_DB_PATH",
	"STITCHSYNC_API_URL",
	"STITCHSYNC_LOG_LEVEL",
	"STITCHSYNC_SECRET_KEY",
}

// isolateConfigEnv saves and unsets all STITCHSYNC_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STITCHSYNC_ACCESS_TOKEN", "stitch-token")
	t.Setenv("STITCHSYNC_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("STITCHSYNC_DB_PATH", "/tmp/test.db")
	t.Setenv("STITCHSYNC_API_URL", "http://localhost:4000")
	t.Setenv("STITCHSYNC_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.HasAccessToken())
	assert.Equal(t, "stitch-token", cfg.AccessToken.Reveal())
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:4000", cfg.APIURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.HasAccessToken())
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "stitchsync.db", cfg.DBPath)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_AccessTokenNotPrinted(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STITCHSYNC_ACCESS_TOKEN", "stitch-token")

	cfg, err := Load()

	require.NoError(t, err)
	assert.NotContains(t, fmt.Sprintf("%+v", *cfg), "stitch-token")
	assert.NotContains(t, fmt.Sprintf("%#v", *cfg), "stitch-token")
}

func TestLoad_InvalidAPIURL(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STITCHSYNC_API_URL", "api.stitchdata.com")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STITCHSYNC_API_URL")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STITCHSYNC_LOG_LEVEL", "loud")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STITCHSYNC_LOG_LEVEL")
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("STITCHSYNC_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STITCHSYNC_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STITCHSYNC_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("STITCHSYNC_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STITCHSYNC_SECRET_KEY")
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	isolateConfigEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte("STITCHSYNC_DB_PATH=from-dotenv.db\nSTITCHSYNC_LISTEN_ADDR=127.0.0.1:7000\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("STITCHSYNC_LISTEN_ADDR", "127.0.0.1:9000")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
}

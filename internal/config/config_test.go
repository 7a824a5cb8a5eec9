package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()

	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, DirName, "data"), cfg.GetString(KeyDataDir))
	assert.Equal(t, "warn", cfg.GetString(KeyLogLevel))

	fetch, err := FetchSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, Fetch{Timeout: 30 * time.Second, MaxAttempts: 6}, fetch)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[data]
dir = "/srv/chats"

[fetch]
timeout = "5s"
max_attempts = 2
user_agent = "distill-test"
browser = true
browser_control_url = "ws://127.0.0.1:9222/devtools/browser/x"

[log]
level = "debug"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/chats", cfg.GetString(KeyDataDir))
	assert.Equal(t, "debug", cfg.GetString(KeyLogLevel))

	fetch, err := FetchSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, Fetch{
		Timeout:           5 * time.Second,
		MaxAttempts:       2,
		UserAgent:         "distill-test",
		Browser:           true,
		BrowserControlURL: "ws://127.0.0.1:9222/devtools/browser/x",
	}, fetch)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[fetch]\nmax_attempts = 2\n")
	t.Setenv("DISTILL_FETCH_MAX_ATTEMPTS", "4")
	t.Setenv("DISTILL_DATA_DIR", "/tmp/elsewhere")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.GetString(KeyDataDir))

	fetch, err := FetchSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(4), fetch.MaxAttempts)
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[fetch\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestFetchSettingsValidation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Set(KeyFetchMaxAttempts, 0)
	_, err = FetchSettings(cfg)
	require.ErrorContains(t, err, "fetch.max_attempts")

	cfg.Set(KeyFetchMaxAttempts, 3)
	cfg.Set(KeyFetchTimeout, "-1s")
	_, err = FetchSettings(cfg)
	require.ErrorContains(t, err, "fetch.timeout")
}

// Package config loads settings from ~/.chat-distiller/config.toml with
// DISTILL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DirName    = ".chat-distiller"
	configName = "config"
	configType = "toml"
	envPrefix  = "DISTILL"

	KeyDataDir           = "data.dir"
	KeyFetchTimeout      = "fetch.timeout"
	KeyFetchMaxAttempts  = "fetch.max_attempts"
	KeyFetchUserAgent    = "fetch.user_agent"
	KeyFetchBrowser      = "fetch.browser"
	KeyFetchBrowserURL   = "fetch.browser_control_url"
	KeyLogLevel          = "log.level"
	defaultFetchTimeout  = 30 * time.Second
	defaultMaxAttempts   = 6
	defaultLogLevel      = "warn"
	defaultDataDirSuffix = "data"
)

// Fetch groups the settings of the page fetchers.
type Fetch struct {
	Timeout           time.Duration
	MaxAttempts       uint
	UserAgent         string
	Browser           bool
	BrowserControlURL string
}

func Load() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, DirName))

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyDataDir, filepath.Join(homeDir, DirName, defaultDataDirSuffix))
	cfg.SetDefault(KeyFetchTimeout, defaultFetchTimeout)
	cfg.SetDefault(KeyFetchMaxAttempts, defaultMaxAttempts)
	cfg.SetDefault(KeyFetchUserAgent, "")
	cfg.SetDefault(KeyFetchBrowser, false)
	cfg.SetDefault(KeyFetchBrowserURL, "")
	cfg.SetDefault(KeyLogLevel, defaultLogLevel)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func FetchSettings(cfg *viper.Viper) (Fetch, error) {
	timeout := cfg.GetDuration(KeyFetchTimeout)
	if timeout <= 0 {
		return Fetch{}, fmt.Errorf("%s must be a positive duration", KeyFetchTimeout)
	}

	attempts := cfg.GetInt(KeyFetchMaxAttempts)
	if attempts < 1 {
		return Fetch{}, fmt.Errorf("%s must be at least 1", KeyFetchMaxAttempts)
	}

	return Fetch{
		Timeout:           timeout,
		MaxAttempts:       uint(attempts),
		UserAgent:         cfg.GetString(KeyFetchUserAgent),
		Browser:           cfg.GetBool(KeyFetchBrowser),
		BrowserControlURL: cfg.GetString(KeyFetchBrowserURL),
	}, nil
}

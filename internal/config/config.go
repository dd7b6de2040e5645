// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/joho/godotenv"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// DefaultAPIURL is the production Stitch API host.
const DefaultAPIURL = "https://api.stitchdata.com"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AccessToken model.Secret
	ListenAddr  string
	DBPath      string
	APIURL      string
	LogLevel    slog.Level
	// SecretKey is the 32-byte AES-256 key for credential encryption; nil
	// when STITCHSYNC_SECRET_KEY is unset.
	SecretKey []byte
}

// HasAccessToken returns true when a Stitch access token was supplied through
// the environment. Stored credentials may still provide one at startup.
func (c *Config) HasAccessToken() bool {
	return !c.AccessToken.IsZero()
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is read first; variables already set in
// the environment win over it.
//
// STITCHSYNC_ACCESS_TOKEN is optional; without it triggers fail until a token
// is stored via the API. Optional variables with defaults:
// STITCHSYNC_LISTEN_ADDR (127.0.0.1:8080), STITCHSYNC_DB_PATH (stitchsync.db),
// STITCHSYNC_API_URL (https://api.stitchdata.com), STITCHSYNC_LOG_LEVEL (info).
// STITCHSYNC_SECRET_KEY must be 64 hex characters when set.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AccessToken: model.NewSecret(os.Getenv("STITCHSYNC_ACCESS_TOKEN")),
		ListenAddr:  "127.0.0.1:8080",
		DBPath:      "stitchsync.db",
		APIURL:      DefaultAPIURL,
		LogLevel:    slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("STITCHSYNC_LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("STITCHSYNC_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("STITCHSYNC_API_URL"); ok && v != "" {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("STITCHSYNC_API_URL must be an absolute URL, got %q", v)
		}
		cfg.APIURL = v
	}

	if v, ok := os.LookupEnv("STITCHSYNC_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("STITCHSYNC_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	if v, ok := os.LookupEnv("STITCHSYNC_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("STITCHSYNC_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("STITCHSYNC_SECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}

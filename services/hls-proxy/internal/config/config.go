package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	platform "github.com/example/anistream/internal/platform/config"
)

// Config extends the shared app settings with relay-specific values.
type Config struct {
	platform.AppConfig
	SigningSecret string
	// PublicBase overrides the relay URL written into rewritten playlists.
	PublicBase string
	// UpstreamTimeout caps a single upstream fetch, body included.
	UpstreamTimeout time.Duration
}

func Load() (Config, error) {
	app, err := platform.Load()
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(os.Getenv("HTTP_ADDR")) == "" {
		app.HTTP.Addr = ":8084"
	}
	secret := strings.TrimSpace(os.Getenv("HLS_SIGNING_SECRET"))
	if secret == "" {
		return Config{}, errors.New("HLS_SIGNING_SECRET is required")
	}
	cfg := Config{
		AppConfig:       app,
		SigningSecret:   secret,
		PublicBase:      strings.TrimRight(strings.TrimSpace(os.Getenv("HLS_PUBLIC_BASE")), "/"),
		UpstreamTimeout: 30 * time.Second,
	}
	if v := strings.TrimSpace(os.Getenv("HLS_UPSTREAM_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("HLS_UPSTREAM_TIMEOUT: invalid duration %q", v)
		}
		cfg.UpstreamTimeout = d
	}
	return cfg, nil
}

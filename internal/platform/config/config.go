package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
	// CORSAllowedOrigins is the raw comma-separated CORS_ALLOWED_ORIGINS value.
	CORSAllowedOrigins string
}

// AppConfig holds the settings every anistream binary reads before its own
// service-specific config.
type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	// ShutdownTimeout bounds the graceful cleanup run on SIGTERM.
	ShutdownTimeout time.Duration
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		HTTP: HTTPConfig{
			Addr:               strings.TrimSpace(os.Getenv("HTTP_ADDR")),
			CORSAllowedOrigins: strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		ShutdownTimeout: 10 * time.Second,
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if v := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return AppConfig{}, fmt.Errorf("SHUTDOWN_TIMEOUT: invalid duration %q", v)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

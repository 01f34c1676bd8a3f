package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/internal/platform/logging"
	"github.com/example/anistream/internal/platform/run"
	"github.com/example/anistream/internal/platform/signing"
	"github.com/example/anistream/services/hls-proxy/internal/config"
	"github.com/example/anistream/services/hls-proxy/internal/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.ForService(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	h := relay.New(signing.New(cfg.SigningSecret), log)
	h.PublicBase = cfg.PublicBase
	h.Client.Timeout = cfg.UpstreamTimeout

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{AllowedOrigins: cfg.HTTP.CORSAllowedOrigins})
	r.Method("GET", "/hls", h)

	// Segments can be long downloads; no write timeout.
	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r, WriteTimeout: -1})

	runner := run.New(log)
	runner.Timeout = cfg.ShutdownTimeout
	code := runner.WithSignals(func(ctx context.Context) error {
		return srv.Start()
	}, srv.Shutdown)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

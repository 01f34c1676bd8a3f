package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/analytics"
	"github.com/example/anistream/internal/platform/config"
	"github.com/example/anistream/internal/platform/grpchealth"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/internal/platform/logging"
	"github.com/example/anistream/internal/platform/natsconn"
	"github.com/example/anistream/internal/platform/run"
	"github.com/example/anistream/internal/platform/signing"
	"github.com/example/anistream/services/site/internal/anilist"
	"github.com/example/anistream/services/site/internal/cache"
	siteconfig "github.com/example/anistream/services/site/internal/config"
	"github.com/example/anistream/services/site/internal/consumet"
	"github.com/example/anistream/services/site/internal/handlers"
	sitehttp "github.com/example/anistream/services/site/internal/http"
	"github.com/example/anistream/services/site/internal/ratelimit"
	"github.com/example/anistream/services/site/internal/resolver"
	"github.com/example/anistream/services/site/internal/spotlight"
	"github.com/example/anistream/services/site/internal/watch"
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

	siteCfg, err := siteconfig.Load()
	if err != nil {
		log.Error("load site config", zap.Error(err))
		run.Exit(1)
	}

	var (
		respCache cache.Cache
		redis     *cache.Redis
	)
	if siteCfg.RedisURL != "" {
		redis, err = cache.NewRedis(siteCfg.RedisURL, siteCfg.CacheTTL, log)
		if err != nil {
			log.Error("redis", zap.Error(err))
			run.Exit(1)
		}
		respCache = redis
	} else {
		respCache = cache.NewMemory(siteCfg.CacheTTL)
	}

	var (
		nc  *nats.Conn
		pub *analytics.Publisher
	)
	if siteCfg.NATSURL != "" {
		nc, err = natsconn.Connect(natsconn.Options{URL: siteCfg.NATSURL, Name: cfg.ServiceName})
		if err != nil {
			log.Error("nats connect", zap.Error(err))
			run.Exit(1)
		}
		pub = analytics.New(nc, log)
		if _, err := cache.Subscribe(nc, siteCfg.InvalidateSubject, respCache, log); err != nil {
			log.Error("cache invalidation subscribe", zap.Error(err))
			run.Exit(1)
		}
	}

	limiter := ratelimit.NewRPS(siteCfg.AniListRPS)
	metadata := anilist.New(siteCfg.AniListURL,
		anilist.WithLimiter(limiter),
		anilist.WithCache(respCache),
		anilist.WithLogger(log),
	)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "consumet",
		MaxRequests: siteCfg.CBMaxRequests,
		Interval:    siteCfg.CBInterval,
		Timeout:     siteCfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= siteCfg.CBFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	streams := consumet.New(siteCfg.ConsumetBaseURL, consumet.ClientConfig{UserAgent: siteCfg.ConsumetUserAgent},
		consumet.WithCircuitBreaker(cb),
		consumet.WithCache(respCache),
		consumet.WithLogger(log),
	)
	res := resolver.New(streams, resolver.WithAnalytics(pub), resolver.WithLogger(log))

	composerOpts := []watch.Option{watch.WithAnalytics(pub), watch.WithLogger(log)}
	if siteCfg.HLSEnabled() {
		composerOpts = append(composerOpts, watch.WithProxy(&watch.Proxy{
			Base:   siteCfg.HLSProxyBase + "/hls",
			Signer: signing.New(siteCfg.HLSSigningSecret),
			TTL:    siteCfg.HLSLinkTTL,
		}))
	}
	composer := watch.New(metadata, res, composerOpts...)

	spot := spotlight.NewService(metadata, siteCfg.SpotlightInterval, log)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error {
			if redis == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redis.Ping(ctx)
		},
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Logger:         log,
	})

	rl := sitehttp.NewRateLimiter(siteCfg.RateLimitRPS, siteCfg.RateLimitBurst)
	r.Group(func(r chi.Router) {
		r.Use(rl.Middleware)
		r.Get("/api/top-anime", handlers.TopAnime(metadata, log))
		r.Get("/api/search", handlers.Search(metadata, pub, log))
		r.Get("/v1/spotlight", handlers.Spotlight(spot))
		r.Get("/v1/watch/{anime_id}", handlers.Watch(composer, log))
		r.Get("/v1/streaming/{anime_id}", handlers.Streaming(res))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	var health *grpchealth.Server
	if siteCfg.GRPCAddr != "" {
		health = grpchealth.New(siteCfg.GRPCAddr, cfg.ServiceName, log)
	}

	runner := run.New(log)
	runner.Timeout = cfg.ShutdownTimeout
	code := runner.WithSignals(func(ctx context.Context) error {
		spot.Start(ctx)
		go refreshSpotlight(ctx, spot, log)
		go sweepBuckets(ctx, rl)
		if health != nil {
			go func() {
				if err := health.Serve(); err != nil {
					log.Error("grpc health serve", zap.Error(err))
				}
			}()
			health.SetServing(true)
		}
		return srv.Start()
	},
		func(ctx context.Context) error {
			if health != nil {
				health.SetServing(false)
			}
			return srv.Shutdown(ctx)
		},
		func(context.Context) error {
			spot.Stop()
			limiter.Stop()
			return nil
		},
		func(ctx context.Context) error {
			if health == nil {
				return nil
			}
			return health.Shutdown(ctx)
		},
		func(context.Context) error {
			if nc == nil {
				return nil
			}
			return nc.Drain()
		},
		func(context.Context) error {
			if redis == nil {
				return nil
			}
			return redis.Close()
		},
	)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// refreshSpotlight loads the trending list now and then hourly. A failed
// first load is retried on the next tick.
func refreshSpotlight(ctx context.Context, s *spotlight.Service, log *zap.Logger) {
	load := func() {
		c, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		_ = s.Load(c)
	}
	load()
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("spotlight refresh stopped")
			return
		case <-t.C:
			load()
		}
	}
}

func sweepBuckets(ctx context.Context, rl *sitehttp.RateLimiter) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep(30 * time.Minute)
		}
	}
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AniListURL string
	// AniListRPS caps outbound metadata calls; AniList allows ~90/min.
	AniListRPS int

	ConsumetBaseURL   string
	ConsumetUserAgent string

	CacheTTL          time.Duration
	RedisURL          string
	NATSURL           string
	InvalidateSubject string

	RateLimitRPS   float64
	RateLimitBurst int

	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32

	SpotlightInterval time.Duration

	// HLS relay; both or neither.
	HLSProxyBase     string
	HLSSigningSecret string
	HLSLinkTTL       time.Duration

	GRPCAddr string
}

func Load() (Config, error) {
	anilistURL := strings.TrimSpace(os.Getenv("ANILIST_URL"))
	if anilistURL == "" {
		anilistURL = "https://graphql.anilist.co"
	}
	consumetURL := strings.TrimSpace(os.Getenv("CONSUMET_BASE_URL"))
	if consumetURL == "" {
		consumetURL = "https://api.consumet.org/meta/anilist"
	}
	userAgent := strings.TrimSpace(os.Getenv("CONSUMET_USER_AGENT"))
	if userAgent == "" {
		userAgent = "anistream-site/1.0"
	}
	subject := strings.TrimSpace(os.Getenv("CACHE_INVALIDATE_SUBJECT"))
	if subject == "" {
		subject = "cache.site.invalidate"
	}

	hlsBase := strings.TrimRight(strings.TrimSpace(os.Getenv("HLS_PROXY_BASE")), "/")
	hlsSecret := strings.TrimSpace(os.Getenv("HLS_SIGNING_SECRET"))
	if (hlsBase == "") != (hlsSecret == "") {
		return Config{}, errors.New("HLS_PROXY_BASE and HLS_SIGNING_SECRET must be set together")
	}

	rps, err := envFloat("RATE_LIMIT_RPS", 10)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AniListURL:         anilistURL,
		AniListRPS:         envInt("ANILIST_RPS", 1),
		ConsumetBaseURL:    consumetURL,
		ConsumetUserAgent:  userAgent,
		CacheTTL:           envDuration("CACHE_TTL", time.Hour),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		NATSURL:            strings.TrimSpace(os.Getenv("NATS_URL")),
		InvalidateSubject:  subject,
		RateLimitRPS:       rps,
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 20),
		CBMaxRequests:      uint32(envInt("CB_MAX_REQUESTS", 1)),
		CBInterval:         envDuration("CB_INTERVAL", 60*time.Second),
		CBTimeout:          envDuration("CB_TIMEOUT", 30*time.Second),
		CBFailureThreshold: uint32(envInt("CB_FAILURE_THRESHOLD", 5)),
		SpotlightInterval:  envDuration("SPOTLIGHT_INTERVAL", 5*time.Second),
		HLSProxyBase:       hlsBase,
		HLSSigningSecret:   hlsSecret,
		HLSLinkTTL:         envDuration("HLS_LINK_TTL", 6*time.Hour),
		GRPCAddr:           strings.TrimSpace(os.Getenv("GRPC_ADDR")),
	}, nil
}

// HLSEnabled reports whether sources should be offered through the relay.
func (c Config) HLSEnabled() bool {
	return c.HLSProxyBase != "" && c.HLSSigningSecret != ""
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(key + " must be a positive number")
	}
	return f, nil
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

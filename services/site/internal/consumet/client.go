package consumet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/anistream/services/site/internal/cache"
)

const DefaultBaseURL = "https://api.consumet.org/meta/anilist"

// errUpstream is what the breaker sees for a response it should count as a
// failure. Callers still get the response itself.
var errUpstream = errors.New("consumet: upstream failure")

type ClientConfig struct {
	UserAgent string
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Config     ClientConfig
	CB         *gobreaker.CircuitBreaker
	Cache      cache.Cache
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithCache(cc cache.Cache) Option {
	return func(c *Client) { c.Cache = cc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.Log = log
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func New(baseURL string, cfg ClientConfig, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "anistream/1.0"
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Info(ctx context.Context, animeID string) (*Response, error) {
	return c.fetch(ctx, "consumet:info:"+animeID, c.BaseURL+"/info/"+url.PathEscape(animeID))
}

func (c *Client) Watch(ctx context.Context, episodeID string) (*Response, error) {
	return c.fetch(ctx, "consumet:watch:"+episodeID, c.BaseURL+"/watch/"+url.PathEscape(episodeID))
}

func (c *Client) fetch(ctx context.Context, key, u string) (*Response, error) {
	if c.Cache != nil {
		if b, ok := c.Cache.Get(ctx, key); ok {
			return &Response{Status: http.StatusOK, ContentType: "application/json", Body: b}, nil
		}
	}
	resp, err := c.doWithBreaker(ctx, u)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil && resp.OK() && resp.IsJSON() {
		c.Cache.Set(ctx, key, resp.Body)
	}
	return resp, nil
}

// doWithBreaker makes exactly one attempt. 5xx and non-JSON answers trip the
// breaker but are still handed back for classification.
func (c *Client) doWithBreaker(ctx context.Context, u string) (*Response, error) {
	if c.CB == nil {
		return c.do(ctx, u)
	}
	var resp *Response
	_, err := c.CB.Execute(func() (interface{}, error) {
		r, err := c.do(ctx, u)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.Status >= 500 || !r.IsJSON() {
			return nil, errUpstream
		}
		return nil, nil
	})
	if errors.Is(err, errUpstream) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, u string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("consumet: read body: %w", err)
	}
	c.Log.Debug("consumet response", zap.String("url", u), zap.Int("status", resp.StatusCode))
	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}

package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/anistream/services/site/internal/cache"
	"github.com/example/anistream/services/site/internal/ratelimit"
)

const DefaultURL = "https://graphql.anilist.co"

// ErrNotFound is returned when AniList has no media for the request.
var ErrNotFound = errors.New("anilist: not found")

// StatusError is a non-2xx answer from AniList.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("anilist: status %d body=%q", e.Status, e.Body)
}

// GraphQLError is the errors array AniList returns with a 200 and no data.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "anilist: " + strings.Join(e.Messages, "; ")
}

type Client struct {
	URL        string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
	Cache      cache.Cache
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.Limiter = l }
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

func New(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse[T any] struct {
	Data   *T `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

type mediaData struct {
	Media *Anime `json:"Media"`
}

type pageData struct {
	Page struct {
		Media []Anime `json:"media"`
	} `json:"Page"`
}

func (c *Client) GetAnime(ctx context.Context, id int) (*Anime, error) {
	data, err := query[mediaData](ctx, c, "anilist:media:"+strconv.Itoa(id), mediaByIDQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if data.Media == nil {
		return nil, ErrNotFound
	}
	return data.Media, nil
}

// TopAnime returns the current trending releasing shows.
func (c *Client) TopAnime(ctx context.Context) ([]Anime, error) {
	data, err := query[pageData](ctx, c, "anilist:top", trendingQuery, nil)
	if err != nil {
		return nil, err
	}
	return data.Page.Media, nil
}

func (c *Client) Search(ctx context.Context, term string) (*Anime, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrNotFound
	}
	key := "anilist:search:" + strings.ToLower(term)
	data, err := query[mediaData](ctx, c, key, searchQuery, map[string]any{"search": term})
	if err != nil {
		return nil, err
	}
	if data.Media == nil {
		return nil, ErrNotFound
	}
	return data.Media, nil
}

func query[T any](ctx context.Context, c *Client, key, q string, vars map[string]any) (*T, error) {
	if c.Cache != nil {
		if b, ok := c.Cache.Get(ctx, key); ok {
			if out, err := decode[T](b); err == nil {
				return out, nil
			}
		}
	}
	b, err := c.post(ctx, q, vars)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](b)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		c.Cache.Set(ctx, key, b)
	}
	return out, nil
}

func decode[T any](b []byte) (*T, error) {
	var resp gqlResponse[T]
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("anilist: decode: %w", err)
	}
	if resp.Data == nil {
		if len(resp.Errors) > 0 {
			msgs := make([]string, 0, len(resp.Errors))
			for _, e := range resp.Errors {
				if e.Status == http.StatusNotFound {
					return nil, ErrNotFound
				}
				msgs = append(msgs, e.Message)
			}
			return nil, &GraphQLError{Messages: msgs}
		}
		return nil, errors.New("anilist: empty response")
	}
	return resp.Data, nil
}

func (c *Client) post(ctx context.Context, q string, vars map[string]any) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := json.Marshal(gqlRequest{Query: q, Variables: vars})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Warn("anilist non-2xx", zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Status: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	return b, nil
}

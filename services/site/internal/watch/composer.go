// Package watch assembles the watch page from metadata and streaming
// lookups that run side by side.
package watch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/anistream/internal/platform/analytics"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/services/site/internal/anilist"
	"github.com/example/anistream/services/site/internal/episodes"
	"github.com/example/anistream/services/site/internal/resolver"
)

// ErrNotFound means there is no metadata for the anime, whatever streaming said.
var ErrNotFound = errors.New("watch: anime not found")

// StreamResolver is the part of *resolver.Resolver the composer uses.
type StreamResolver interface {
	Resolve(ctx context.Context, animeID string, episode int) resolver.Result
}

type Request struct {
	AnimeID int
	Episode int
	Query   string
	// Page overrides the page that holds the current episode.
	Page *int
}

type Page struct {
	Info      InfoView         `json:"info"`
	Player    PlayerView       `json:"player"`
	Episodes  episodes.View    `json:"episodes"`
	Streaming *resolver.Result `json:"streaming,omitempty"`
}

type Composer struct {
	metadata  anilist.Provider
	resolver  StreamResolver
	proxy     *Proxy
	analytics *analytics.Publisher
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Composer)

func WithProxy(p *Proxy) Option {
	return func(c *Composer) { c.proxy = p }
}

func WithAnalytics(p *analytics.Publisher) Option {
	return func(c *Composer) { c.analytics = p }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Composer) {
		if log != nil {
			c.log = log
		}
	}
}

func New(metadata anilist.Provider, r StreamResolver, opts ...Option) *Composer {
	c := &Composer{metadata: metadata, resolver: r, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose waits for both lookups. A streaming failure is rendered inside
// the page; only missing metadata fails the whole page.
func (c *Composer) Compose(ctx context.Context, req Request) (*Page, error) {
	if req.Episode < 1 {
		req.Episode = 1
	}
	id := strconv.Itoa(req.AnimeID)

	var (
		meta    *anilist.Anime
		metaErr error
		stream  resolver.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta, metaErr = c.metadata.GetAnime(gctx, req.AnimeID)
		return nil
	})
	g.Go(func() error {
		stream = c.resolver.Resolve(gctx, id, req.Episode)
		return nil
	})
	_ = g.Wait()

	if metaErr != nil && !errors.Is(metaErr, anilist.ErrNotFound) {
		c.log.Warn("metadata fetch failed", zap.Int("anime_id", req.AnimeID), zap.Error(metaErr))
	}
	if meta == nil {
		return nil, ErrNotFound
	}

	list := episodes.BuildList(id, stream.Episodes, meta.Episodes)
	b := episodes.NewBrowser(list, req.Episode)
	if req.Query != "" {
		b.SetQuery(req.Query)
	}
	if req.Page != nil {
		b.SetPage(*req.Page)
	}

	page := &Page{
		Info:      newInfoView(meta, req.Episode),
		Player:    c.playerView(meta.DisplayTitle(), req.Episode, meta.Duration, stream),
		Episodes:  episodes.Render(id, b, req.Episode, meta.Episodes),
		Streaming: &stream,
	}

	c.analytics.Publish(analytics.SubjectWatchViewed, "watch_viewed", httpserver.RequestIDFromContext(ctx), map[string]any{
		"anime_id": req.AnimeID,
		"episode":  req.Episode,
		"status":   string(page.Player.Status),
	})
	return page, nil
}

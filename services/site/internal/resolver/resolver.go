package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/analytics"
	"github.com/example/anistream/internal/platform/htmltext"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/services/site/internal/consumet"
)

type Resolver struct {
	provider  consumet.Provider
	analytics *analytics.Publisher
	log       *zap.Logger
}

type Option func(*Resolver)

func WithAnalytics(p *analytics.Publisher) Option {
	return func(r *Resolver) { r.analytics = p }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func New(p consumet.Provider, opts ...Option) *Resolver {
	r := &Resolver{provider: p, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve makes at most two upstream calls and never retries. Failures come
// back inside the Result, never as a Go error.
func (r *Resolver) Resolve(ctx context.Context, animeID string, episode int) Result {
	res := r.resolve(ctx, animeID, episode)
	r.report(ctx, animeID, episode, res)
	return res
}

func (r *Resolver) resolve(ctx context.Context, animeID string, episode int) Result {
	log := r.log.With(zap.String("anime_id", animeID), zap.Int("episode", episode))

	log.Info("fetching episode index")
	info, err := r.provider.Info(ctx, animeID)
	if err != nil {
		log.Error("episode index fetch failed", zap.Error(err))
		return failed(classify(StageInfo, err))
	}
	log.Info("episode index response", zap.Int("status", info.Status))

	if !info.IsJSON() {
		log.Error("episode index returned non-json",
			zap.String("content_type", info.ContentType),
			zap.String("title", htmltext.Title(info.Body)),
			zap.String("body", info.Snippet(200)))
		return failed(unavailable(StageInfo, info.Status))
	}
	if !info.OK() {
		log.Error("episode index error response", zap.String("body", info.Snippet(500)))
		return failed(httpStatus(StageInfo, info.Status))
	}

	index, err := info.DecodeInfo()
	if err != nil {
		log.Error("episode index decode failed", zap.Error(err))
		return failed(classify(StageInfo, err))
	}
	if index.Episodes == nil {
		log.Warn("no episodes in index")
		return failed(&Error{Kind: KindNoEpisodes, Stage: StageInfo, Message: msgNoEpisodes})
	}
	episodes := *index.Episodes
	log.Info("episode index decoded", zap.Int("episodes", len(episodes)))

	current := find(episodes, episode)
	if current == nil {
		log.Warn("episode not found")
		return Result{Episodes: episodes, Err: episodeNotFound(episode)}
	}

	log.Info("fetching streams", zap.String("episode_id", current.ID))
	watch, err := r.provider.Watch(ctx, current.ID)
	if err != nil {
		log.Error("stream fetch failed", zap.Error(err))
		return failed(classify(StageWatch, err))
	}
	log.Info("stream response", zap.Int("status", watch.Status))

	if !watch.IsJSON() {
		log.Error("streams returned non-json",
			zap.String("content_type", watch.ContentType),
			zap.String("title", htmltext.Title(watch.Body)),
			zap.String("body", watch.Snippet(200)))
		return Result{Episodes: episodes, CurrentEpisode: current, Err: unavailable(StageWatch, watch.Status)}
	}
	if !watch.OK() {
		log.Error("stream error response", zap.String("body", watch.Snippet(500)))
		return Result{Episodes: episodes, CurrentEpisode: current, Err: httpStatus(StageWatch, watch.Status)}
	}

	streams, err := watch.DecodeWatch()
	if err != nil {
		log.Error("stream decode failed", zap.Error(err))
		return failed(classify(StageWatch, err))
	}
	log.Info("stream sources", zap.Int("sources", len(streams.Sources)))

	return Result{
		Episodes:       episodes,
		CurrentEpisode: current,
		Sources:        streams.Sources,
		Headers:        streams.Headers,
	}
}

// find matches on the exact number and requires a usable id.
func find(episodes []consumet.Episode, n int) *consumet.Episode {
	for i := range episodes {
		if episodes[i].Number == n {
			if episodes[i].ID == "" {
				return nil
			}
			ep := episodes[i]
			return &ep
		}
	}
	return nil
}

func failed(e *Error) Result {
	return Result{Episodes: []consumet.Episode{}, Err: e}
}

func (r *Resolver) report(ctx context.Context, animeID string, episode int, res Result) {
	if r.analytics == nil {
		return
	}
	rid := httpserver.RequestIDFromContext(ctx)
	props := map[string]any{"anime_id": animeID, "episode": episode}
	if res.Err != nil {
		props["kind"] = string(res.Err.Kind)
		props["stage"] = string(res.Err.Stage)
		if res.Err.Status != 0 {
			props["status"] = res.Err.Status
		}
		r.analytics.Publish(analytics.SubjectStreamingFailed, "streaming_failed", rid, props)
		return
	}
	props["sources"] = len(res.Sources)
	r.analytics.Publish(analytics.SubjectStreamingResolved, "streaming_resolved", rid, props)
}

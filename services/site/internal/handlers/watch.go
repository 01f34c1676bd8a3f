package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/api"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/internal/platform/logging"
	"github.com/example/anistream/services/site/internal/watch"
)

// Watch handles GET /v1/watch/{anime_id}?episode=&q=&page=
func Watch(c *watch.Composer, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id, ok := animeIDParam(w, r, rid)
		if !ok {
			return
		}
		ep, ok := episodeParam(w, r, rid)
		if !ok {
			return
		}
		req := watch.Request{AnimeID: id, Episode: ep, Query: r.URL.Query().Get("q")}
		if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				api.BadRequest(w, "INVALID_PAGE", "page must be an integer", rid, nil)
				return
			}
			req.Page = &p
		}

		page, err := c.Compose(r.Context(), req)
		if errors.Is(err, watch.ErrNotFound) {
			api.NotFound(w, "NOT_FOUND", "Anime not found", rid)
			return
		}
		if err != nil {
			log.Error("compose failed", zap.String("request_id", rid), zap.Error(err))
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

func animeIDParam(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "anime_id"))
	if raw == "" {
		api.BadRequest(w, "MISSING_ID", "anime_id is required", rid, nil)
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		api.BadRequest(w, "INVALID_ID", "anime_id must be a positive integer", rid, nil)
		return 0, false
	}
	return id, true
}

// episodeParam defaults to 1 when absent.
func episodeParam(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("episode"))
	if raw == "" {
		return 1, true
	}
	ep, err := strconv.Atoi(raw)
	if err != nil || ep < 1 {
		api.BadRequest(w, "INVALID_EPISODE", "episode must be a positive integer", rid, nil)
		return 0, false
	}
	return ep, true
}

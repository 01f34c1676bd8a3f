package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/analytics"
	"github.com/example/anistream/internal/platform/api"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/internal/platform/logging"
	"github.com/example/anistream/services/site/internal/anilist"
)

type legacyError struct {
	Error string `json:"error"`
}

// TopAnime handles GET /api/top-anime. The body is the AniList media array
// as the home page has always consumed it.
func TopAnime(p anilist.Provider, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := p.TopAnime(r.Context())
		if err != nil {
			log.Warn("top anime failed", zap.String("request_id", httpserver.RequestIDFromContext(r.Context())), zap.Error(err))
			api.WriteJSON(w, http.StatusInternalServerError, legacyError{Error: "Failed to fetch anime"})
			return
		}
		if list == nil {
			list = []anilist.Anime{}
		}
		api.WriteJSON(w, http.StatusOK, list)
	}
}

// Search handles GET /api/search?search=
func Search(p anilist.Provider, pub *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		term := strings.TrimSpace(r.URL.Query().Get("search"))
		if term == "" {
			api.BadRequest(w, "MISSING_SEARCH", "search is required", rid, nil)
			return
		}

		a, err := p.Search(r.Context(), term)
		pub.Publish(analytics.SubjectSearchPerformed, "search_performed", rid, map[string]any{
			"term":  term,
			"found": err == nil,
		})
		if errors.Is(err, anilist.ErrNotFound) {
			api.NotFound(w, "NOT_FOUND", "No anime matches the search", rid)
			return
		}
		if err != nil {
			log.Warn("search failed", zap.String("request_id", rid), zap.Error(err))
			api.BadGateway(w, "UPSTREAM_ERROR", "AniList request failed", rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, a)
	}
}

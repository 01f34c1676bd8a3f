package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/example/anistream/internal/platform/api"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/services/site/internal/resolver"
)

type Resolver interface {
	Resolve(ctx context.Context, animeID string, episode int) resolver.Result
}

// Streaming handles GET /v1/streaming/{anime_id}?episode=
// Resolution failures are part of the 200 body.
func Streaming(res Resolver) http.HandlerFunc {
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
		api.WriteJSON(w, http.StatusOK, res.Resolve(r.Context(), strconv.Itoa(id), ep))
	}
}

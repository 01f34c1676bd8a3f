package handlers

import (
	"net/http"

	"github.com/example/anistream/internal/platform/api"
	"github.com/example/anistream/internal/platform/httpserver"
	"github.com/example/anistream/services/site/internal/spotlight"
)

// Spotlight handles GET /v1/spotlight
func Spotlight(s *spotlight.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := s.Current()
		if !ok {
			api.Unavailable(w, "SPOTLIGHT_LOADING", "Loading...", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		api.WriteJSON(w, http.StatusOK, item)
	}
}

// Package relay serves signed upstream media through this origin.
package relay

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/signing"
	"github.com/example/anistream/services/hls-proxy/internal/rewriter"
)

const (
	maxPlaylistBytes = 8 << 20
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"
)

var playlistTypes = []string{
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"audio/mpegurl",
	"audio/x-mpegurl",
}

// passHeaders are copied from upstream on non-playlist responses.
var passHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Content-Range",
	"Accept-Ranges",
	"Cache-Control",
	"Last-Modified",
	"Etag",
}

type Handler struct {
	Signer *signing.Signer
	Client *http.Client
	Log    *zap.Logger
	// PublicBase is the externally visible relay endpoint, e.g.
	// https://hls.example.com/hls. Derived from the request when empty.
	PublicBase string
}

func New(s *signing.Signer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Signer: s,
		Client: &http.Client{Timeout: 30 * time.Second},
		Log:    log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	signed, err := signing.ExtractSigned(r.URL.Query())
	if err != nil || !h.Signer.Verify(signed) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	target, err := url.Parse(signed.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, signed.URL, nil)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	applyUpstreamHeaders(req, signed.Referer)
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		h.Log.Warn("upstream fetch failed", zap.String("host", target.Host), zap.Error(err))
		http.Error(w, "upstream", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if isPlaylist(contentType, target.Path) {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPlaylistBytes))
		if err != nil {
			http.Error(w, "upstream", http.StatusBadGateway)
			return
		}
		rw := rewriter.Rewriter{Signer: h.Signer, ProxyBase: h.proxyBase(r)}
		body := rw.Rewrite(string(data), signed.URL, signed.Referer, signed.Exp)
		if contentType == "" {
			contentType = "application/vnd.apple.mpegurl"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, body)
		return
	}

	for _, k := range passHeaders {
		if v := resp.Header.Get(k); v != "" {
			w.Header().Set(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func (h *Handler) proxyBase(r *http.Request) string {
	if h.PublicBase != "" {
		return h.PublicBase
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.Path
}

func isPlaylist(contentType, path string) bool {
	ct := strings.ToLower(contentType)
	for _, t := range playlistTypes {
		if strings.Contains(ct, t) {
			return true
		}
	}
	// Some CDNs label playlists text/plain or octet-stream.
	return strings.HasSuffix(strings.ToLower(path), ".m3u8")
}

// applyUpstreamHeaders makes the request look like the embedding player's.
func applyUpstreamHeaders(req *http.Request, referer string) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("User-Agent", defaultUserAgent)
	if referer == "" {
		return
	}
	req.Header.Set("Referer", referer)
	if u, err := url.Parse(referer); err == nil && u.Scheme != "" && u.Host != "" {
		req.Header.Set("Origin", u.Scheme+"://"+u.Host)
	}
}

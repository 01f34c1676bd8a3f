package watch

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/anistream/internal/platform/signing"
	"github.com/example/anistream/services/site/internal/player"
	"github.com/example/anistream/services/site/internal/resolver"
)

type Quality struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	ProxyURL string `json:"proxyUrl,omitempty"`
	IsM3U8   bool   `json:"isM3U8"`
	Selected bool   `json:"selected"`
}

// PlayerView is what the player area starts from.
type PlayerView struct {
	Status          player.Status `json:"status"`
	Title           string        `json:"title"`
	EpisodeLabel    string        `json:"episodeLabel"`
	State           *player.State `json:"state,omitempty"`
	SelectedQuality string        `json:"selectedQuality,omitempty"`
	TimeLabel       string        `json:"timeLabel,omitempty"`
	Qualities       []Quality     `json:"qualities,omitempty"`
	Error           string        `json:"error,omitempty"`
	ErrorKind       string        `json:"errorKind,omitempty"`
	Reasons         []string      `json:"reasons,omitempty"`
	Loading         string        `json:"loading,omitempty"`
}

// Proxy signs source URLs for the HLS relay.
type Proxy struct {
	Base   string
	Signer *signing.Signer
	TTL    time.Duration
}

func (p *Proxy) url(raw, referer string, now time.Time) (string, error) {
	return signing.BuildSignedURL(p.Base, p.Signer.Sign(raw, referer, now.Add(p.TTL)))
}

func itoa(n int) string { return strconv.Itoa(n) }

// playerView builds the player area. minutes is the metadata episode length
// and only feeds the time label until the media reports its own duration.
func (c *Composer) playerView(title string, episode int, minutes *int, res resolver.Result) PlayerView {
	v := PlayerView{
		Status:       player.StatusFor(res),
		Title:        title,
		EpisodeLabel: "Episode " + itoa(episode),
	}
	switch v.Status {
	case player.StatusError:
		v.Error = res.Err.Message
		v.ErrorKind = string(res.Err.Kind)
		v.Reasons = player.FailureReasons()
		return v
	case player.StatusLoading:
		v.Loading = "Loading episode " + itoa(episode) + "..."
		return v
	}

	st := player.InitialState(res.Sources)
	v.State = &st
	v.SelectedQuality = player.SelectedQuality(res.Sources, st.SelectedURL)
	length := st.Duration
	if length == 0 && minutes != nil {
		length = float64(*minutes * 60)
	}
	v.TimeLabel = player.FormatTime(st.CurrentTime) + " / " + player.FormatTime(length)
	now := c.now()
	referer := res.Headers["Referer"]
	for _, s := range res.Sources {
		q := Quality{Label: s.Quality, URL: s.URL, IsM3U8: s.IsM3U8, Selected: s.URL == st.SelectedURL}
		if c.proxy != nil {
			u, err := c.proxy.url(s.URL, referer, now)
			if err != nil {
				c.log.Warn("proxy url failed", zap.String("url", s.URL), zap.Error(err))
			} else {
				q.ProxyURL = u
			}
		}
		v.Qualities = append(v.Qualities, q)
	}
	return v
}

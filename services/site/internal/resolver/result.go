// Package resolver turns an anime id and episode number into playable
// sources, or a classified error the player can show.
package resolver

import "github.com/example/anistream/services/site/internal/consumet"

// Kind enumerates why a resolution failed.
type Kind string

const (
	KindUnavailable     Kind = "unavailable"
	KindHTTPStatus      Kind = "http_status"
	KindNoEpisodes      Kind = "no_episodes"
	KindEpisodeNotFound Kind = "episode_not_found"
	KindOutage          Kind = "outage"
	KindNetwork         Kind = "network"
	KindUnknown         Kind = "unknown"
)

type Stage string

const (
	StageInfo  Stage = "info"
	StageWatch Stage = "watch"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Stage   Stage  `json:"stage,omitempty"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Result is the outcome of one resolution. When Err is set, Sources must not
// be played even if present.
type Result struct {
	Episodes       []consumet.Episode `json:"episodes"`
	CurrentEpisode *consumet.Episode  `json:"currentEpisode"`
	Sources        []consumet.Source  `json:"sources"`
	Headers        map[string]string  `json:"headers,omitempty"`
	Err            *Error             `json:"error"`
}

func (r Result) Usable() bool {
	return r.Err == nil && len(r.Sources) > 0
}

// ErrorText is the message to render, or "".
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

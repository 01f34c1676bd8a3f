package player

import (
	"fmt"
	"math"

	"github.com/example/anistream/services/site/internal/consumet"
)

// State is one watch session's playback state.
type State struct {
	Playing         bool    `json:"playing"`
	CurrentTime     float64 `json:"currentTime"`
	Duration        float64 `json:"duration"`
	Volume          float64 `json:"volume"`
	Muted           bool    `json:"muted"`
	Fullscreen      bool    `json:"fullscreen"`
	ControlsVisible bool    `json:"controlsVisible"`
	SelectedURL     string  `json:"selectedUrl"`
	QualityMenuOpen bool    `json:"qualityMenuOpen"`
}

const defaultQuality = "default"

// InitialState is paused at zero, full volume, on the default source.
func InitialState(sources []consumet.Source) State {
	s := State{Volume: 1, ControlsVisible: true}
	if src, ok := DefaultSource(sources); ok {
		s.SelectedURL = src.URL
	}
	return s
}

// DefaultSource picks the source labelled "default", else the first one.
func DefaultSource(sources []consumet.Source) (consumet.Source, bool) {
	if len(sources) == 0 {
		return consumet.Source{}, false
	}
	for _, s := range sources {
		if s.Quality == defaultQuality {
			return s, true
		}
	}
	return sources[0], true
}

// SelectedQuality is the label of the source at url, or "Auto".
func SelectedQuality(sources []consumet.Source, url string) string {
	for _, s := range sources {
		if s.URL == url && s.Quality != "" {
			return s.Quality
		}
	}
	return "Auto"
}

// FormatTime renders seconds as m:ss.
func FormatTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

package watch

import (
	"strings"
	"time"

	"github.com/example/anistream/services/site/internal/anilist"
)

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type NextAiring struct {
	Episode  int       `json:"episode"`
	AiringAt time.Time `json:"airingAt"`
}

// InfoView is the metadata panel beside the player.
type InfoView struct {
	ID             int         `json:"id"`
	Title          string      `json:"title"`
	EnglishTitle   string      `json:"englishTitle,omitempty"`
	NativeTitle    string      `json:"nativeTitle,omitempty"`
	Cover          string      `json:"cover"`
	Banner         string      `json:"banner,omitempty"`
	Color          string      `json:"color,omitempty"`
	Stats          []Stat      `json:"stats"`
	Genres         []string    `json:"genres,omitempty"`
	Season         string      `json:"season,omitempty"`
	Status         string      `json:"status,omitempty"`
	Lifecycle      string      `json:"lifecycle"`
	Studio         string      `json:"studio,omitempty"`
	NextAiring     *NextAiring `json:"nextAiring,omitempty"`
	Description    string      `json:"description,omitempty"`
	CurrentEpisode int         `json:"currentEpisode"`
}

func newInfoView(a *anilist.Anime, episode int) InfoView {
	format := a.Format
	if format == "" {
		format = "N/A"
	}
	v := InfoView{
		ID:          a.ID,
		Title:       a.DisplayTitle(),
		NativeTitle: a.Title.Native,
		Cover:       a.Cover(),
		Banner:      a.BannerImage,
		Color:       a.CoverImage.Color,
		Stats: []Stat{
			{Label: "Score", Value: a.ScoreLabel()},
			{Label: "Episodes", Value: a.EpisodesLabel()},
			{Label: "Duration", Value: a.DurationLabel()},
			{Label: "Format", Value: format},
		},
		Genres:         a.Genres,
		Lifecycle:      a.Lifecycle().String(),
		Studio:         a.Studio(),
		Description:    a.CleanDescription(),
		CurrentEpisode: episode,
	}
	if a.Title.English != "" && a.Title.English != a.Title.Romaji {
		v.EnglishTitle = a.Title.English
	}
	if a.Season != "" && a.SeasonYear != nil {
		v.Season = a.Season + " " + itoa(*a.SeasonYear)
	}
	if a.Status != "" {
		v.Status = strings.Replace(strings.ToLower(a.Status), "_", " ", 1)
	}
	if n := a.NextAiringEpisode; n != nil {
		v.NextAiring = &NextAiring{Episode: n.Episode, AiringAt: time.Unix(n.AiringAt, 0).UTC()}
	}
	return v
}

// Package anilist is a client for the AniList GraphQL metadata API.
package anilist

import (
	"strconv"

	"github.com/example/anistream/internal/platform/htmltext"
)

type Title struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

type CoverImage struct {
	ExtraLarge string `json:"extraLarge,omitempty"`
	Large      string `json:"large,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Airing is the next scheduled episode of a releasing show.
type Airing struct {
	Episode  int   `json:"episode"`
	AiringAt int64 `json:"airingAt"`
}

type Studios struct {
	Nodes []struct {
		Name string `json:"name"`
	} `json:"nodes"`
}

// Anime mirrors the Media fields the site queries. Field names follow the
// AniList schema so the value can be re-served as-is.
type Anime struct {
	ID                int        `json:"id"`
	Title             Title      `json:"title"`
	CoverImage        CoverImage `json:"coverImage"`
	BannerImage       string     `json:"bannerImage,omitempty"`
	Description       string     `json:"description,omitempty"`
	Episodes          *int       `json:"episodes"`
	Duration          *int       `json:"duration"`
	Status            string     `json:"status,omitempty"`
	Format            string     `json:"format,omitempty"`
	Season            string     `json:"season,omitempty"`
	SeasonYear        *int       `json:"seasonYear"`
	AverageScore      *int       `json:"averageScore"`
	Popularity        *int       `json:"popularity,omitempty"`
	Genres            []string   `json:"genres"`
	Studios           *Studios   `json:"studios,omitempty"`
	NextAiringEpisode *Airing    `json:"nextAiringEpisode,omitempty"`
}

// Lifecycle is the coarse release state derived from Status.
type Lifecycle int

const (
	LifecycleOther Lifecycle = iota
	LifecycleReleasing
	LifecycleFinished
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleReleasing:
		return "releasing"
	case LifecycleFinished:
		return "finished"
	default:
		return "other"
	}
}

func (a *Anime) Lifecycle() Lifecycle {
	switch a.Status {
	case "RELEASING":
		return LifecycleReleasing
	case "FINISHED":
		return LifecycleFinished
	default:
		return LifecycleOther
	}
}

// DisplayTitle prefers romaji, which is what the watch page headlines.
func (a *Anime) DisplayTitle() string {
	if a.Title.Romaji != "" {
		return a.Title.Romaji
	}
	return a.Title.English
}

// SpotlightTitle prefers english, which is what the carousel headlines.
func (a *Anime) SpotlightTitle() string {
	if a.Title.English != "" {
		return a.Title.English
	}
	return a.Title.Romaji
}

// Cover returns the largest available cover image.
func (a *Anime) Cover() string {
	if a.CoverImage.ExtraLarge != "" {
		return a.CoverImage.ExtraLarge
	}
	return a.CoverImage.Large
}

// Studio returns the first studio's name, or "".
func (a *Anime) Studio() string {
	if a.Studios == nil || len(a.Studios.Nodes) == 0 {
		return ""
	}
	return a.Studios.Nodes[0].Name
}

func (a *Anime) ScoreLabel() string {
	if a.AverageScore == nil || *a.AverageScore == 0 {
		return "N/A"
	}
	return strconv.Itoa(*a.AverageScore) + "%"
}

func (a *Anime) DurationLabel() string {
	if a.Duration == nil || *a.Duration == 0 {
		return "N/A"
	}
	return strconv.Itoa(*a.Duration) + " min"
}

func (a *Anime) EpisodesLabel() string {
	if a.Episodes == nil || *a.Episodes == 0 {
		return "?"
	}
	return strconv.Itoa(*a.Episodes)
}

// CleanDescription is the description with markup removed.
func (a *Anime) CleanDescription() string {
	return htmltext.Text(a.Description)
}

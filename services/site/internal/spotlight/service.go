package spotlight

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/example/anistream/services/site/internal/anilist"
)

const maxGenres = 5

// Item is the carousel card for one show.
type Item struct {
	Rank        string   `json:"rank"`
	Index       int      `json:"index"`
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Format      string   `json:"format,omitempty"`
	Score       string   `json:"score"`
	Episodes    *int     `json:"episodes,omitempty"`
	SeasonYear  *int     `json:"seasonYear,omitempty"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Banner      string   `json:"banner,omitempty"`
	Cover       string   `json:"cover,omitempty"`
	Href        string   `json:"href"`
}

func NewItem(a anilist.Anime, idx int) Item {
	return Item{
		Rank:        fmt.Sprintf("#%d Spotlight", idx+1),
		Index:       idx,
		ID:          a.ID,
		Title:       a.SpotlightTitle(),
		Format:      a.Format,
		Score:       a.ScoreLabel(),
		Episodes:    a.Episodes,
		SeasonYear:  a.SeasonYear,
		Description: a.CleanDescription(),
		Genres:      lo.Subset(a.Genres, 0, maxGenres),
		Banner:      a.BannerImage,
		Cover:       a.Cover(),
		Href:        fmt.Sprintf("/watch/%d", a.ID),
	}
}

// Service feeds the trending list into a rotator.
type Service struct {
	provider anilist.Provider
	rot      *Rotator[anilist.Anime]
	log      *zap.Logger
}

func NewService(p anilist.Provider, interval time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: p, rot: NewRotator[anilist.Anime](interval), log: log}
}

// Load fetches the trending list. On failure the previous list stays.
func (s *Service) Load(ctx context.Context) error {
	list, err := s.provider.TopAnime(ctx)
	if err != nil {
		s.log.Warn("spotlight load failed", zap.Error(err))
		return err
	}
	s.rot.SetItems(list)
	s.log.Info("spotlight loaded", zap.Int("items", len(list)))
	return nil
}

func (s *Service) Start(ctx context.Context) { s.rot.Activate(ctx) }

func (s *Service) Stop() { s.rot.Deactivate() }

// Current is false until a non-empty list has loaded.
func (s *Service) Current() (Item, bool) {
	a, idx, ok := s.rot.Current()
	if !ok {
		return Item{}, false
	}
	return NewItem(a, idx), true
}

func (s *Service) Rotator() *Rotator[anilist.Anime] { return s.rot }

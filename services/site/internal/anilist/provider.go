package anilist

import "context"

// Provider is the port for fetching anime metadata.
type Provider interface {
	GetAnime(ctx context.Context, id int) (*Anime, error)
	TopAnime(ctx context.Context) ([]Anime, error)
	Search(ctx context.Context, term string) (*Anime, error)
}

package consumet

import "context"

// Provider is the port for the aggregator's episode index and stream lookup.
type Provider interface {
	Info(ctx context.Context, animeID string) (*Response, error)
	Watch(ctx context.Context, episodeID string) (*Response, error)
}

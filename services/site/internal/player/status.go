package player

import "github.com/example/anistream/services/site/internal/resolver"

type Status string

const (
	StatusReady   Status = "ready"
	StatusError   Status = "error"
	StatusLoading Status = "loading"
)

var failureReasons = [...]string{
	"Consumet API is temporarily down",
	"Episode not yet available",
	"Network connection issue",
	"CORS or API rate limiting",
}

// FailureReasons returns a fresh copy of the checklist shown under a
// streaming error.
func FailureReasons() []string {
	return append([]string(nil), failureReasons[:]...)
}

// StatusFor says what the player area should show for a resolution.
// An error wins over any sources that came with it.
func StatusFor(r resolver.Result) Status {
	switch {
	case r.Err != nil:
		return StatusError
	case len(r.Sources) > 0:
		return StatusReady
	default:
		return StatusLoading
	}
}

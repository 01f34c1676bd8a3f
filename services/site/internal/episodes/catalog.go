// Package episodes builds, searches and pages the episode list shown next to
// the player.
package episodes

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/example/anistream/services/site/internal/consumet"
)

const PageSize = 20

// maxButtons is the widest page-number window.
const maxButtons = 5

// BuildList uses the resolver's episodes verbatim when there are any. With
// none, it synthesizes placeholders from the known total, which carry no
// streaming id upstream will accept.
func BuildList(animeID string, resolved []consumet.Episode, totalHint *int) []consumet.Episode {
	if len(resolved) > 0 {
		return resolved
	}
	if totalHint == nil || *totalHint <= 0 {
		return []consumet.Episode{}
	}
	return lo.Times(*totalHint, func(i int) consumet.Episode {
		n := i + 1
		return consumet.Episode{
			ID:          animeID + "-episode-" + strconv.Itoa(n),
			Number:      n,
			Title:       "Episode " + strconv.Itoa(n),
			Synthesized: true,
		}
	})
}

// Filter keeps entries whose number or title contains query, ignoring case.
func Filter(list []consumet.Episode, query string) []consumet.Episode {
	q := strings.ToLower(query)
	if q == "" {
		return list
	}
	return lo.Filter(list, func(ep consumet.Episode, _ int) bool {
		return strings.Contains(strconv.Itoa(ep.Number), q) ||
			strings.Contains(strings.ToLower(ep.Title), q)
	})
}

func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the page window [page*size, page*size+size). Pages outside
// the list are empty.
func Paginate(list []consumet.Episode, page, size int) []consumet.Episode {
	if size <= 0 {
		size = PageSize
	}
	// Bound page before multiplying so a huge page cannot wrap.
	if page < 0 || page > len(list)/size {
		return []consumet.Episode{}
	}
	start := page * size
	if start >= len(list) {
		return []consumet.Episode{}
	}
	end := min(start+size, len(list))
	return list[start:end]
}

// InitialPage is the page holding the current episode.
func InitialPage(current, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if current < 1 {
		return 0
	}
	return (current - 1) / size
}

// PageWindow returns up to five zero-based page indices centered on current.
// Near either end the window is pinned to that end.
func PageWindow(current, total int) []int {
	n := min(maxButtons, total)
	if n <= 0 {
		return nil
	}
	var first int
	switch {
	case total <= maxButtons, current < 3:
		first = 0
	case current > total-3:
		first = total - maxButtons
	default:
		first = current - 2
	}
	return lo.RangeFrom(first, n)
}

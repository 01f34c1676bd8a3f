package episodes

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/example/anistream/services/site/internal/consumet"
)

type Entry struct {
	Number      int    `json:"number"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Href        string `json:"href"`
	IsCurrent   bool   `json:"isCurrent"`
	IsPast      bool   `json:"isPast"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

type PageButton struct {
	Index  int  `json:"index"`
	Label  int  `json:"label"`
	Active bool `json:"active"`
}

type NavLink struct {
	Href     string `json:"href"`
	Disabled bool   `json:"disabled"`
}

// Pagination is omitted when everything fits on one page.
type Pagination struct {
	Buttons   []PageButton `json:"buttons"`
	PrevPage  *int         `json:"prevPage"`
	NextPage  *int         `json:"nextPage"`
	Label     string       `json:"label"`
	TotalPage int          `json:"totalPages"`
}

type View struct {
	Query      string      `json:"query"`
	Entries    []Entry     `json:"entries"`
	Empty      string      `json:"empty,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Previous   NavLink     `json:"previous"`
	Next       NavLink     `json:"next"`
}

// Href is the watch link for episode n of animeID.
func Href(animeID string, n int) string {
	return "/watch/" + animeID + "?episode=" + strconv.Itoa(n)
}

// Render builds the panel for the browser's current state. total is the
// metadata episode count, nil when unknown.
func Render(animeID string, b *Browser, current int, total *int) View {
	visible := b.Visible()
	v := View{
		Query: b.Query(),
		Entries: lo.Map(visible, func(ep consumet.Episode, _ int) Entry {
			return Entry{
				Number:      ep.Number,
				ID:          ep.ID,
				Title:       ep.DisplayTitle(),
				Description: ep.Description,
				Href:        Href(animeID, ep.Number),
				IsCurrent:   ep.Number == current,
				IsPast:      ep.Number < current,
				Synthesized: ep.Synthesized,
			}
		}),
	}
	if len(v.Entries) == 0 {
		v.Empty = "No episodes found"
	}

	if pages := b.TotalPages(); pages > 1 {
		p := b.Page()
		pg := &Pagination{
			Buttons: lo.Map(PageWindow(p, pages), func(i int, _ int) PageButton {
				return PageButton{Index: i, Label: i + 1, Active: i == p}
			}),
			Label:     fmt.Sprintf("Page %d of %d", p+1, pages),
			TotalPage: pages,
		}
		if p > 0 {
			prev := p - 1
			pg.PrevPage = &prev
		}
		if p < pages-1 {
			next := p + 1
			pg.NextPage = &next
		}
		v.Pagination = pg
	}

	v.Previous = NavLink{Href: Href(animeID, max(1, current-1)), Disabled: current <= 1}
	v.Next = NavLink{Href: Href(animeID, current+1), Disabled: total != nil && *total > 0 && current >= *total}
	return v
}

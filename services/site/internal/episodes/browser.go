package episodes

import "github.com/example/anistream/services/site/internal/consumet"

// Browser is the list widget's state: a search query plus the page shown.
type Browser struct {
	list  []consumet.Episode
	query string
	page  int
}

func NewBrowser(list []consumet.Episode, current int) *Browser {
	return &Browser{list: list, page: InitialPage(current, PageSize)}
}

// SetQuery replaces the search text and goes back to the first page.
func (b *Browser) SetQuery(q string) {
	b.query = q
	b.page = 0
}

// SetPage moves to page p. Indices outside the filtered list are ignored.
func (b *Browser) SetPage(p int) bool {
	if p < 0 || p >= b.TotalPages() {
		return false
	}
	b.page = p
	return true
}

func (b *Browser) Query() string { return b.query }

func (b *Browser) Page() int { return b.page }

func (b *Browser) Filtered() []consumet.Episode {
	return Filter(b.list, b.query)
}

func (b *Browser) TotalPages() int {
	return TotalPages(len(b.Filtered()), PageSize)
}

// Visible is the slice of the filtered list on the current page.
func (b *Browser) Visible() []consumet.Episode {
	return Paginate(b.Filtered(), b.page, PageSize)
}

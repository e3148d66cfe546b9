package feed

import "kommunity/models"

const (
	// DefaultVisible is how many items a fresh feed shows.
	DefaultVisible = 5
	// Step is how many more items each load-more reveals.
	Step = 5
)

// Pager is the visible-count cursor over a sorted feed. The full list is
// re-sliced from the top every time; with feeds this small the repeated
// work is not worth a smarter cursor.
type Pager struct {
	visible int
}

func NewPager() *Pager {
	return &Pager{visible: DefaultVisible}
}

// PagerAfter returns a pager advanced by the given number of load-more
// actions. Negative counts are treated as zero.
func PagerAfter(loads int) *Pager {
	p := NewPager()
	for i := 0; i < loads; i++ {
		p.LoadMore()
	}
	return p
}

func (p *Pager) LoadMore() {
	p.visible += Step
}

func (p *Pager) Visible() int {
	return p.visible
}

// Slice returns the currently visible prefix of the sorted feed.
func (p *Pager) Slice(items []models.FeedItem) []models.FeedItem {
	if p.visible >= len(items) {
		return items
	}
	return items[:p.visible]
}

package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
)

func ts(seconds int64) *models.Timestamp {
	return &models.Timestamp{Seconds: seconds}
}

func TestFlattenOrdersNewestFirst(t *testing.T) {
	doc := models.PostDocument{
		"2024-09-02": {
			"A1": {Caption: "x", Created: ts(1000)},
		},
		"2024-09-01": {
			"B2": {Caption: "y", Created: ts(500)},
		},
	}

	items := Flatten(doc)

	require.Len(t, items, 2)
	assert.Equal(t, "A1", items[0].PostID)
	assert.Equal(t, "B2", items[1].PostID)
}

func TestFlattenIsMonotonicallyNonIncreasing(t *testing.T) {
	doc := models.PostDocument{
		"2024-09-03": {
			"C1": {Created: ts(900)},
			"C2": {Created: ts(3000)},
		},
		"2024-09-02": {
			"A1": {Created: ts(1000)},
			"A2": {Created: ts(2500)},
		},
		"2024-09-01": {
			"B2": {Created: ts(500)},
		},
	}

	items := Flatten(doc)

	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Created.Seconds, items[i].Created.Seconds,
			"feed must be non-increasing in creation seconds")
	}
}

func TestFlattenSkipsPartiallyWrittenPosts(t *testing.T) {
	doc := models.PostDocument{
		"2024-09-02": {
			"A1": {Caption: "ok", Created: ts(1000)},
			"A2": {Caption: "no timestamp"},
			"A3": {Caption: "zero seconds", Created: ts(0)},
		},
	}

	items := Flatten(doc)

	require.Len(t, items, 1)
	assert.Equal(t, "A1", items[0].PostID)
}

func TestFlattenKeepsBucketDateSeparateFromTimestamp(t *testing.T) {
	// A post created late at night can land in yesterday's bucket; the
	// bucket date must survive flattening untouched.
	doc := models.PostDocument{
		"2024-09-01": {
			"A1": {Caption: "late", Created: ts(1725235200)},
		},
	}

	items := Flatten(doc)

	require.Len(t, items, 1)
	assert.Equal(t, "2024-09-01", items[0].Date)
	assert.Equal(t, int64(1725235200), items[0].Created.Seconds)
}

func TestFlattenEmptyDocument(t *testing.T) {
	assert.Empty(t, Flatten(models.PostDocument{}))
	assert.Empty(t, Flatten(nil))
}

func TestByAuthor(t *testing.T) {
	doc := models.PostDocument{
		"2024-09-02": {
			"A1": {AuthorID: "u1", Created: ts(1000)},
			"A2": {AuthorID: "u2", Created: ts(900)},
			"A3": {AuthorID: "u1", Created: ts(800)},
		},
	}

	items := ByAuthor(Flatten(doc), "u1")

	require.Len(t, items, 2)
	assert.Equal(t, "A1", items[0].PostID)
	assert.Equal(t, "A3", items[1].PostID)
}

func TestPagerVisibleCountLaw(t *testing.T) {
	// visible = min(5 + 5k, N) after k load-more actions
	items := make([]models.FeedItem, 23)

	for _, tc := range []struct {
		loads, want int
	}{
		{0, 5},
		{1, 10},
		{3, 20},
		{4, 23},
		{10, 23},
	} {
		p := PagerAfter(tc.loads)
		assert.Len(t, p.Slice(items), tc.want, "loads=%d", tc.loads)
	}
}

func TestPagerShortFeed(t *testing.T) {
	items := make([]models.FeedItem, 3)
	p := NewPager()
	assert.Len(t, p.Slice(items), 3)
	p.LoadMore()
	assert.Len(t, p.Slice(items), 3)
}

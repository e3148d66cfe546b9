package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
)

type fakeResolver struct {
	urls map[string]string
}

func (f fakeResolver) ResolveFolderURL(folder string) (string, error) {
	url, ok := f.urls[folder]
	if !ok {
		return "", errors.New("no objects in folder " + folder)
	}
	return url, nil
}

func TestResolveImagesFillsVisibleSlice(t *testing.T) {
	items := []models.FeedItem{
		{PostID: "A1", AuthorID: "u1", AuthorAvatar: "ref", Image: "ref"},
		{PostID: "A2", AuthorID: "u2", AuthorAvatar: "ref"},
		{PostID: "A3", AuthorID: "u3"}, // no references, nothing to resolve
	}
	resolver := fakeResolver{urls: map[string]string{
		"u1": "https://cdn/u1/a.jpg",
		"A1": "https://cdn/A1/p.jpg",
		"u2": "https://cdn/u2/a.jpg",
	}}

	failed := ResolveImages(items, resolver)

	assert.Empty(t, failed)
	assert.Equal(t, "https://cdn/u1/a.jpg", items[0].AvatarDisplayURL)
	assert.Equal(t, "https://cdn/A1/p.jpg", items[0].ImageDisplayURL)
	assert.Equal(t, "https://cdn/u2/a.jpg", items[1].AvatarDisplayURL)
	assert.Empty(t, items[2].AvatarDisplayURL)
}

func TestResolveImagesDegradesPerRecord(t *testing.T) {
	items := []models.FeedItem{
		{PostID: "A1", AuthorID: "u1", AuthorAvatar: "ref", Image: "ref"},
		{PostID: "A2", AuthorID: "u2", AuthorAvatar: "ref"},
	}
	// only u2 resolves; everything else is an empty folder
	resolver := fakeResolver{urls: map[string]string{
		"u2": "https://cdn/u2/a.jpg",
	}}

	failed := ResolveImages(items, resolver)

	require.Len(t, failed, 2)
	assert.True(t, failed["A1/avatar"])
	assert.True(t, failed["A1/image"])
	assert.Empty(t, items[0].AvatarDisplayURL)
	assert.Empty(t, items[0].ImageDisplayURL)
	assert.Equal(t, "https://cdn/u2/a.jpg", items[1].AvatarDisplayURL)
}

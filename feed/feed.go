package feed

import (
	"sort"

	"kommunity/models"
)

// Flatten merges every date bucket of the posts document into one list
// ordered by creation time, newest first. Each item keeps the bucket date
// as its own field next to the post's creation timestamp.
//
// Posts without a usable creation timestamp are partially written and are
// skipped rather than treated as errors. Ties on equal seconds keep the
// bucket/id iteration order; nothing depends on that order.
func Flatten(doc models.PostDocument) []models.FeedItem {
	dates := make([]string, 0, len(doc))
	for date := range doc {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var items []models.FeedItem
	for _, date := range dates {
		bucket := doc[date]
		ids := make([]string, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			post := bucket[id]
			if post.Created == nil || post.Created.Seconds <= 0 {
				continue
			}
			items = append(items, models.FeedItem{
				PostID:       id,
				Date:         date,
				Caption:      post.Caption,
				AuthorID:     post.AuthorID,
				AuthorName:   post.AuthorName,
				AuthorAvatar: post.AuthorAvatar,
				Image:        post.Image,
				Available:    post.Available,
				Volunteer:    post.Volunteer,
				Category:     post.Category,
				Created:      post.Created,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Created.Seconds > items[j].Created.Seconds
	})
	return items
}

// ByAuthor narrows a flattened feed to posts by one author, keeping order.
func ByAuthor(items []models.FeedItem, authorID string) []models.FeedItem {
	var out []models.FeedItem
	for _, it := range items {
		if it.AuthorID == authorID {
			out = append(out, it)
		}
	}
	return out
}

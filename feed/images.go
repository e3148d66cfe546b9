package feed

import (
	"sync"

	"kommunity/models"
)

// FolderResolver turns a storage folder name (a user or post id) into a
// display URL for the first object inside it.
type FolderResolver interface {
	ResolveFolderURL(folder string) (string, error)
}

// ResolveImages fills in display URLs for the visible slice only. One
// resolution per carried reference: the author avatar folder is named by
// author id, the post image folder by post id. All lookups run
// concurrently and are joined before anything is written back, so the
// caller never sees a half-resolved slice.
//
// Failures are collected per reference ("<postID>/avatar" or
// "<postID>/image") and degrade to an empty URL; they are never an error
// for the whole feed.
func ResolveImages(items []models.FeedItem, resolver FolderResolver) map[string]bool {
	type result struct {
		index  int
		avatar bool
		url    string
		err    error
	}

	var wg sync.WaitGroup
	results := make(chan result, len(items)*2)

	for i := range items {
		if items[i].AuthorAvatar != "" {
			wg.Add(1)
			go func(i int, folder string) {
				defer wg.Done()
				url, err := resolver.ResolveFolderURL(folder)
				results <- result{index: i, avatar: true, url: url, err: err}
			}(i, items[i].AuthorID)
		}
		if items[i].Image != "" {
			wg.Add(1)
			go func(i int, folder string) {
				defer wg.Done()
				url, err := resolver.ResolveFolderURL(folder)
				results <- result{index: i, avatar: false, url: url, err: err}
			}(i, items[i].PostID)
		}
	}

	wg.Wait()
	close(results)

	failed := map[string]bool{}
	for res := range results {
		item := &items[res.index]
		if res.err != nil {
			if res.avatar {
				failed[item.PostID+"/avatar"] = true
			} else {
				failed[item.PostID+"/image"] = true
			}
			continue
		}
		if res.avatar {
			item.AvatarDisplayURL = res.url
		} else {
			item.ImageDisplayURL = res.url
		}
	}
	return failed
}

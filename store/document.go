package store

import "kommunity/models"

// In-memory counterparts of the patch operations. The post controller
// keeps a cached copy of the posts document and patches it after each
// successful write instead of reloading the whole document.

// SetPost writes one post under doc[date][id], creating the date bucket
// when needed.
func SetPost(doc models.PostDocument, date, id string, post models.Post) {
	bucket, ok := doc[date]
	if !ok {
		bucket = map[string]models.Post{}
		doc[date] = bucket
	}
	bucket[id] = post
}

// RemovePost deletes doc[date][id]; a date bucket left empty is removed
// entirely so stale buckets never accumulate in memory.
func RemovePost(doc models.PostDocument, date, id string) {
	bucket, ok := doc[date]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(doc, date)
	}
}

// GetPost looks up one post by bucket date and id.
func GetPost(doc models.PostDocument, date, id string) (models.Post, bool) {
	bucket, ok := doc[date]
	if !ok {
		return models.Post{}, false
	}
	post, ok := bucket[id]
	return post, ok
}

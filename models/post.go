package models

// Timestamp mirrors the stored creation time of a post. Seconds is the
// only component the feed relies on; a nil Timestamp marks a post that
// is not yet fully written and must stay invisible.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos,omitempty"`
}

// Post lives inside the shared posts document under the key
// "{YYYY-MM-DD}.{postID}". Author name and avatar are snapshots taken at
// creation time, not live references.
type Post struct {
	Caption      string     `json:"caption"`
	AuthorID     string     `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	AuthorAvatar string     `json:"author_avatar,omitempty"`
	Image        string     `json:"image,omitempty"`
	Available    bool       `json:"available"`
	Volunteer    bool       `json:"volunteer"`
	Category     string     `json:"category,omitempty"`
	Created      *Timestamp `json:"created,omitempty"`
}

// PostDocument is the whole shared document: date bucket -> post id -> post.
type PostDocument map[string]map[string]Post

// FeedItem is one flattened feed row. Date is the bucket key, which is
// distinct from the post's own creation timestamp.
type FeedItem struct {
	PostID       string     `json:"post_id"`
	Date         string     `json:"date"`
	Caption      string     `json:"caption"`
	AuthorID     string     `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	AuthorAvatar string     `json:"author_avatar,omitempty"`
	Image        string     `json:"image,omitempty"`
	Available    bool       `json:"available"`
	Volunteer    bool       `json:"volunteer"`
	Category     string     `json:"category,omitempty"`
	Created      *Timestamp `json:"created"`

	// Resolved lazily for the visible slice only.
	AvatarDisplayURL string `json:"avatar_display_url,omitempty"`
	ImageDisplayURL  string `json:"image_display_url,omitempty"`
}

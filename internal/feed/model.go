package feed

import "time"

// FeedItem is the denormalized per-recipient copy of a post, written
// once at fan-out time. IsLiked and the counts are snapshotted at
// creation; fan-out runs before any reactions can exist, so they start
// at their zero values.
type FeedItem struct {
	RecipientID   string    `json:"recipient_id"`
	PostID        string    `json:"post_id"`
	AuthorID      string    `json:"author_id"`
	AuthorHandle  string    `json:"author_handle,omitempty"`
	Caption       string    `json:"caption,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	IsLiked       bool      `json:"is_liked"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

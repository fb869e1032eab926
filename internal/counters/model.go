package counters

import "time"

// Post is the primary-store post row. LikesCount and CommentsCount are
// mutable aggregates; everything else is written once by the post API.
// The (AuthorID, LocationKey) pair is the denormalized key reactions
// carry, so counter updates never need a lookup by post id.
type Post struct {
	ID            string `gorm:"primaryKey;size:64"`
	AuthorID      string `gorm:"size:64;uniqueIndex:idx_posts_owner_location"`
	LocationKey   string `gorm:"size:128;uniqueIndex:idx_posts_owner_location"`
	AuthorHandle  string `gorm:"size:64"`
	Caption       string
	ImageURL      string
	ThumbnailURL  string
	LikesCount    int64
	CommentsCount int64
	CreatedAt     time.Time
}

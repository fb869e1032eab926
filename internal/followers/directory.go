package followers

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Follow struct {
	FollowerID string `gorm:"primaryKey;size:64"`
	FolloweeID string `gorm:"primaryKey;size:64;index"`
	CreatedAt  time.Time
}

// Directory is a read-only view over the relationship store.
type Directory interface {
	// FollowerCount is used only for the push/bypass decision, so an
	// approximate count is acceptable. It never enumerates followers.
	FollowerCount(ctx context.Context, authorID string) (int64, error)
	// AllFollowerIDs pages through the whole follower set and returns
	// it materialized. An empty slice is a valid result.
	AllFollowerIDs(ctx context.Context, authorID string) ([]string, error)
}

const pageSize = 1000

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) FollowerCount(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).
		Model(&Follow{}).
		Where("followee_id = ?", authorID).
		Count(&n).Error
	return n, err
}

func (d *directory) AllFollowerIDs(ctx context.Context, authorID string) ([]string, error) {
	out := make([]string, 0, pageSize)
	last := ""
	for {
		var page []string
		err := d.db.WithContext(ctx).
			Model(&Follow{}).
			Where("followee_id = ? AND follower_id > ?", authorID, last).
			Order("follower_id").
			Limit(pageSize).
			Pluck("follower_id", &page).Error
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
		last = page[len(page)-1]
	}
}

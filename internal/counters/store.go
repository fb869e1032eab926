package counters

import (
	"context"

	"gorm.io/gorm"
)

// Store applies atomic signed increments on post aggregates.
type Store interface {
	// AddToLikesCount must be a single storage-native add, never a
	// read-modify-write, so concurrent deltas on the same post cannot
	// lose updates.
	AddToLikesCount(ctx context.Context, ownerID, locationKey string, delta int64) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) AddToLikesCount(ctx context.Context, ownerID, locationKey string, delta int64) error {
	return s.db.WithContext(ctx).
		Model(&Post{}).
		Where("author_id = ? AND location_key = ?", ownerID, locationKey).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyInboxFmt  = "feed:%s"
	keyCelebSet  = "celebrities:set"
	maxInboxSize = 1000
)

type Repository interface {
	// UpsertFeedItem adds one denormalized entry to the recipient's
	// inbox. The sorted-set member is the item snapshot and the score
	// its creation time, so redelivering the same post is a no-op
	// rewrite of an identical member.
	UpsertFeedItem(ctx context.Context, item FeedItem) error
	GetFeed(ctx context.Context, recipientID string, limit, offset int) ([]FeedItem, error)

	// Celebrities
	AddCelebrity(ctx context.Context, userID string) error
	IsCelebrity(ctx context.Context, userID string) (bool, error)
	ListCelebrities(ctx context.Context) ([]string, error)
}

type repo struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) Repository { return &repo{rdb: rdb} }

func (r *repo) inboxKey(uid string) string { return fmt.Sprintf(keyInboxFmt, uid) }

func (r *repo) UpsertFeedItem(ctx context.Context, item FeedItem) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	key := r.inboxKey(item.RecipientID)
	pipe := r.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(item.CreatedAt.UnixMilli()),
		Member: b,
	})
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-(maxInboxSize + 1)))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *repo) GetFeed(ctx context.Context, recipientID string, limit, offset int) ([]FeedItem, error) {
	key := r.inboxKey(recipientID)
	raws, err := r.rdb.ZRevRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	out := make([]FeedItem, 0, len(raws))
	for _, s := range raws {
		var item FeedItem
		if json.Unmarshal([]byte(s), &item) == nil {
			out = append(out, item)
		}
	}
	return out, nil
}

// ---- Celebrities ----

func (r *repo) AddCelebrity(ctx context.Context, userID string) error {
	return r.rdb.SAdd(ctx, keyCelebSet, userID).Err()
}

func (r *repo) IsCelebrity(ctx context.Context, userID string) (bool, error) {
	return r.rdb.SIsMember(ctx, keyCelebSet, userID).Result()
}

func (r *repo) ListCelebrities(ctx context.Context) ([]string, error) {
	return r.rdb.SMembers(ctx, keyCelebSet).Result()
}

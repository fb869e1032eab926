package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRepository(rdb)
}

func testItem(recipientID, postID string, createdAt time.Time) FeedItem {
	return FeedItem{
		RecipientID:  recipientID,
		PostID:       postID,
		AuthorID:     "author-1",
		AuthorHandle: "ana",
		Caption:      "sunset",
		CreatedAt:    createdAt,
	}
}

func TestFeedItem_SnapshotIsDeterministic(t *testing.T) {
	// The inbox member is the marshaled snapshot; redelivery relies on
	// the same post producing byte-identical members.
	item := testItem("R", "post-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b1, err := json.Marshal(item)
	require.NoError(t, err)
	b2, err := json.Marshal(testItem("R", "post-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestUpsertFeedItem_RedeliveryIsNoop(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	item := testItem("R", "post-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, repo.UpsertFeedItem(ctx, item))
	require.NoError(t, repo.UpsertFeedItem(ctx, item))

	got, err := repo.GetFeed(ctx, "R", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "post-1", got[0].PostID)
}

func TestUpsertFeedItem_CapsInbox(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	total := maxInboxSize + 25
	for i := 0; i < total; i++ {
		item := testItem("R", fmt.Sprintf("post-%05d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.UpsertFeedItem(ctx, item))
	}

	got, err := repo.GetFeed(ctx, "R", total, 0)
	require.NoError(t, err)
	require.Len(t, got, maxInboxSize, "inbox must be trimmed to its cap")
	// Newest entries survive the trim.
	assert.Equal(t, fmt.Sprintf("post-%05d", total-1), got[0].PostID)
	assert.Equal(t, fmt.Sprintf("post-%05d", total-maxInboxSize), got[len(got)-1].PostID)
}

func TestGetFeed_NewestFirst(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		item := testItem("R", fmt.Sprintf("post-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.UpsertFeedItem(ctx, item))
	}

	got, err := repo.GetFeed(ctx, "R", 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "post-2", got[0].PostID)
	assert.Equal(t, "post-1", got[1].PostID)

	rest, err := repo.GetFeed(ctx, "R", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "post-0", rest[0].PostID)
}

func TestGetFeed_EmptyInbox(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.GetFeed(context.Background(), "nobody", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCelebrities(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	known, err := repo.IsCelebrity(ctx, "author-1")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, repo.AddCelebrity(ctx, "author-1"))
	require.NoError(t, repo.AddCelebrity(ctx, "author-1"))

	known, err = repo.IsCelebrity(ctx, "author-1")
	require.NoError(t, err)
	assert.True(t, known)

	all, err := repo.ListCelebrities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"author-1"}, all)
}

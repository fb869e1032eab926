package fanout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step2this/social-media-app-sub011/internal/cdc"
	"github.com/step2this/social-media-app-sub011/internal/feed"
)

type fakeFeedWriter struct {
	mu       sync.Mutex
	items    []feed.FeedItem
	failFor  map[string]error
	delay    time.Duration
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func (f *fakeFeedWriter) UpsertFeedItem(ctx context.Context, item feed.FeedItem) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxSeen.Load()
		if n <= max || f.maxSeen.CompareAndSwap(max, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.failFor[item.RecipientID]; err != nil {
		return err
	}
	f.mu.Lock()
	f.items = append(f.items, item)
	f.mu.Unlock()
	return nil
}

func (f *fakeFeedWriter) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it.RecipientID)
	}
	return out
}

func testPost() cdc.PostSnapshot {
	return cdc.PostSnapshot{
		ID:           "post-1",
		AuthorID:     "author-1",
		AuthorHandle: "ana",
		Caption:      "sunset",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFanOut_OneItemPerFollower(t *testing.T) {
	fw := &fakeFeedWriter{}
	w := NewBoundedWriter(fw, 10, time.Second)

	w.FanOut(context.Background(), testPost(), []string{"A", "B", "C"})

	require.Len(t, fw.items, 3)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, fw.recipients())
	for _, item := range fw.items {
		assert.Equal(t, "post-1", item.PostID)
		assert.Equal(t, "author-1", item.AuthorID)
		assert.False(t, item.IsLiked)
		assert.Zero(t, item.LikesCount)
	}
}

func TestFanOut_PartialFailureIsolated(t *testing.T) {
	fw := &fakeFeedWriter{failFor: map[string]error{"B": errors.New("throttled")}}
	w := NewBoundedWriter(fw, 10, time.Second)

	w.FanOut(context.Background(), testPost(), []string{"A", "B", "C"})

	assert.ElementsMatch(t, []string{"A", "C"}, fw.recipients())
}

func TestFanOut_EmptyFollowerList(t *testing.T) {
	fw := &fakeFeedWriter{}
	w := NewBoundedWriter(fw, 10, time.Second)

	w.FanOut(context.Background(), testPost(), nil)

	assert.Empty(t, fw.items)
}

func TestFanOut_RespectsConcurrencyLimit(t *testing.T) {
	fw := &fakeFeedWriter{delay: 5 * time.Millisecond}
	w := NewBoundedWriter(fw, 4, time.Second)

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = string(rune('a' + i%26)) + string(rune('0'+i/26))
	}
	w.FanOut(context.Background(), testPost(), ids)

	require.Len(t, fw.items, 100)
	assert.LessOrEqual(t, fw.maxSeen.Load(), int64(4), "writes in flight must never exceed the limit")
}

func TestNewBoundedWriter_DefaultLimit(t *testing.T) {
	w := NewBoundedWriter(&fakeFeedWriter{}, 0, 0)
	assert.Equal(t, DefaultConcurrency, w.limit)
}

func TestNewFeedItem_SnapshotsPostFields(t *testing.T) {
	item := NewFeedItem(testPost(), "viewer-1")
	assert.Equal(t, "viewer-1", item.RecipientID)
	assert.Equal(t, "sunset", item.Caption)
	assert.Equal(t, "ana", item.AuthorHandle)
	assert.Equal(t, testPost().CreatedAt, item.CreatedAt)
	// Redelivered fan-out produces the exact same snapshot.
	assert.Equal(t, item, NewFeedItem(testPost(), "viewer-1"))
}

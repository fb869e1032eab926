package fanout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/step2this/social-media-app-sub011/internal/cdc"
	"github.com/step2this/social-media-app-sub011/internal/feed"
	"github.com/step2this/social-media-app-sub011/internal/metrics"
)

const DefaultConcurrency = 100

// FeedWriter is the outbound feed store dependency.
type FeedWriter interface {
	UpsertFeedItem(ctx context.Context, item feed.FeedItem) error
}

// BoundedWriter replicates a post into follower inboxes with a hard
// cap on in-flight writes, so a large follower set cannot saturate the
// storage layer's throughput budget.
type BoundedWriter struct {
	writer       FeedWriter
	limit        int
	writeTimeout time.Duration
}

func NewBoundedWriter(w FeedWriter, limit int, writeTimeout time.Duration) *BoundedWriter {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &BoundedWriter{writer: w, limit: limit, writeTimeout: writeTimeout}
}

// FanOut writes one FeedItem per follower and returns once every write
// has been attempted. A failed write drops that follower's entry and
// nothing else: push fan-out is a best-effort optimization over the
// pull path, so there are no retries and no aggregate error. The
// per-write timeout keeps a stuck write from holding a concurrency
// permit indefinitely.
func (w *BoundedWriter) FanOut(ctx context.Context, post cdc.PostSnapshot, followerIDs []string) {
	if len(followerIDs) == 0 {
		return
	}
	sem := make(chan struct{}, w.limit)
	var wg sync.WaitGroup
	for _, followerID := range followerIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(followerID string) {
			defer wg.Done()
			defer func() { <-sem }()
			w.writeOne(ctx, post, followerID)
		}(followerID)
	}
	wg.Wait()
}

func (w *BoundedWriter) writeOne(ctx context.Context, post cdc.PostSnapshot, followerID string) {
	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}
	if err := w.writer.UpsertFeedItem(ctx, NewFeedItem(post, followerID)); err != nil {
		metrics.FanoutWrites.WithLabelValues("error").Inc()
		log.Printf("fanout: feed write failed post=%s follower=%s: %v", post.ID, followerID, err)
		return
	}
	metrics.FanoutWrites.WithLabelValues("ok").Inc()
}

// NewFeedItem snapshots the post for one recipient. Fan-out happens at
// post creation, before any reactions exist, so the viewer-dependent
// fields start at their defaults.
func NewFeedItem(post cdc.PostSnapshot, recipientID string) feed.FeedItem {
	return feed.FeedItem{
		RecipientID:  recipientID,
		PostID:       post.ID,
		AuthorID:     post.AuthorID,
		AuthorHandle: post.AuthorHandle,
		Caption:      post.Caption,
		ImageURL:     post.ImageURL,
		ThumbnailURL: post.ThumbnailURL,
		IsLiked:      false,
		CreatedAt:    post.CreatedAt,
	}
}

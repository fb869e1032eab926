package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/step2this/social-media-app-sub011/internal/cdc"
	"github.com/step2this/social-media-app-sub011/internal/counters"
	"github.com/step2this/social-media-app-sub011/internal/fanout"
	"github.com/step2this/social-media-app-sub011/internal/feed"
	"github.com/step2this/social-media-app-sub011/internal/followers"
	"github.com/step2this/social-media-app-sub011/internal/metrics"
)

// Orchestrator routes one batch of change records into the fan-out and
// counter paths. Dependencies are injected once at construction and
// reused across batches.
type Orchestrator struct {
	threshold  int64
	directory  followers.Directory
	writer     *fanout.BoundedWriter
	feeds      feed.Repository
	reconciler *counters.Reconciler
}

func NewOrchestrator(
	threshold int64,
	directory followers.Directory,
	writer *fanout.BoundedWriter,
	feeds feed.Repository,
	reconciler *counters.Reconciler,
) *Orchestrator {
	return &Orchestrator{
		threshold:  threshold,
		directory:  directory,
		writer:     writer,
		feeds:      feeds,
		reconciler: reconciler,
	}
}

// ProcessBatch attempts every record concurrently and returns once all
// of them have been attempted. Records are independent, so there is no
// ordering between them; failures are logged per record and never
// abort the batch. The caller acknowledges the batch as a whole after
// this returns, which is safe because every downstream effect is safe
// to repeat.
func (o *Orchestrator) ProcessBatch(ctx context.Context, records []cdc.RawRecord) {
	start := time.Now()
	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func(rec cdc.RawRecord) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					metrics.StreamRecords.WithLabelValues("panic").Inc()
					log.Printf("stream: record panic seq=%s: %v", rec.SequenceToken, p)
				}
			}()
			o.processRecord(ctx, rec)
		}(rec)
	}
	wg.Wait()
	metrics.BatchDuration.Observe(time.Since(start).Seconds())
}

func (o *Orchestrator) processRecord(ctx context.Context, rec cdc.RawRecord) {
	switch ev := cdc.Decode(rec).(type) {
	case cdc.PostInserted:
		o.handlePostInserted(ctx, ev)
		metrics.StreamRecords.WithLabelValues("post").Inc()
	case cdc.ReactionInserted, cdc.ReactionRemoved:
		if err := o.reconciler.Apply(ctx, ev); err != nil {
			log.Printf("stream: counter update failed seq=%s: %v", rec.SequenceToken, err)
		}
		metrics.StreamRecords.WithLabelValues("reaction").Inc()
	default:
		metrics.StreamRecords.WithLabelValues("skipped").Inc()
	}
}

func (o *Orchestrator) handlePostInserted(ctx context.Context, ev cdc.PostInserted) {
	post := ev.Post
	if known, err := o.feeds.IsCelebrity(ctx, post.AuthorID); err != nil {
		// Fast path only; fall through to the count on a check error.
		log.Printf("stream: celebrity check failed author=%s: %v", post.AuthorID, err)
	} else if known {
		log.Printf("stream: bypassing fanout post=%s author=%s (known celebrity)", post.ID, post.AuthorID)
		return
	}
	count, err := o.directory.FollowerCount(ctx, post.AuthorID)
	if err != nil {
		log.Printf("stream: follower count failed post=%s author=%s: %v", post.ID, post.AuthorID, err)
		return
	}
	if fanout.Decide(count, o.threshold) == fanout.Bypass {
		log.Printf("stream: bypassing fanout post=%s author=%s followers=%d", post.ID, post.AuthorID, count)
		// Record the author so the pull path knows to assemble their
		// posts at query time.
		if err := o.feeds.AddCelebrity(ctx, post.AuthorID); err != nil {
			log.Printf("stream: celebrity mark failed author=%s: %v", post.AuthorID, err)
		}
		return
	}
	ids, err := o.directory.AllFollowerIDs(ctx, post.AuthorID)
	if err != nil {
		log.Printf("stream: follower listing failed post=%s author=%s: %v", post.ID, post.AuthorID, err)
		return
	}
	o.writer.FanOut(ctx, post, ids)
}

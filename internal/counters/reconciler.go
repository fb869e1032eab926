package counters

import (
	"context"
	"log"
	"time"

	"github.com/step2this/social-media-app-sub011/internal/cdc"
	"github.com/step2this/social-media-app-sub011/internal/idem"
	"github.com/step2this/social-media-app-sub011/internal/metrics"
)

// Reconciler folds reaction change events into the owning post's like
// counter. Deltas are plain integer adds, so they commute: reordering
// or redelivery affects how fast the counter converges, not where it
// converges to, as long as duplicates are filtered when a dedup store
// is configured.
type Reconciler struct {
	store    Store
	seen     idem.Store
	dedupTTL time.Duration
}

type Option func(*Reconciler)

// WithDedup enables sequence-token deduplication of reaction events.
// Without it the reconciler stays purely at-least-once and a
// redelivered event re-applies its delta.
func WithDedup(seen idem.Store, ttl time.Duration) Option {
	return func(r *Reconciler) {
		r.seen = seen
		r.dedupTTL = ttl
	}
}

func NewReconciler(store Store, opts ...Option) *Reconciler {
	r := &Reconciler{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply processes one decoded event. Events that are not reaction
// inserts or removes are a no-op. A reaction image without its
// denormalized owner metadata is logged and skipped: an undercount is
// accepted over reintroducing the lookup the denormalization removed.
func (r *Reconciler) Apply(ctx context.Context, ev cdc.Event) error {
	var (
		delta    int64
		reaction cdc.ReactionSnapshot
		token    string
	)
	switch e := ev.(type) {
	case cdc.ReactionInserted:
		delta, reaction, token = 1, e.Reaction, e.SequenceToken
	case cdc.ReactionRemoved:
		delta, reaction, token = -1, e.Reaction, e.SequenceToken
	default:
		return nil
	}

	if reaction.PostOwnerID == "" || reaction.PostLocationKey == "" {
		metrics.CounterUpdates.WithLabelValues("skipped").Inc()
		log.Printf("counters: reaction image missing owner metadata post=%s actor=%s", reaction.PostID, reaction.ActorID)
		return nil
	}

	marked := false
	if r.seen != nil && token != "" {
		fresh, err := r.seen.PutNX(ctx, token, r.dedupTTL)
		if err != nil {
			// Dedup is best effort; on store trouble fall back to
			// at-least-once and apply the delta.
			log.Printf("counters: dedup check failed seq=%s: %v", token, err)
		} else if !fresh {
			metrics.CounterUpdates.WithLabelValues("duplicate").Inc()
			log.Printf("counters: dropping redelivered reaction seq=%s", token)
			return nil
		} else {
			marked = true
		}
	}

	if err := r.store.AddToLikesCount(ctx, reaction.PostOwnerID, reaction.PostLocationKey, delta); err != nil {
		metrics.CounterUpdates.WithLabelValues("error").Inc()
		// Release the token so the upstream redelivery still carries
		// the delta; keeping it would record a failed update as done.
		if marked {
			if derr := r.seen.Del(ctx, token); derr != nil {
				log.Printf("counters: token release failed seq=%s: %v", token, derr)
			}
		}
		return err
	}
	metrics.CounterUpdates.WithLabelValues("ok").Inc()
	return nil
}

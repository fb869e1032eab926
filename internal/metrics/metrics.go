package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StreamRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_stream_records_total",
		Help: "Change records handled, by outcome.",
	}, []string{"outcome"})

	FanoutWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_feed_writes_total",
		Help: "Per-follower feed item writes, by result.",
	}, []string{"result"})

	CounterUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_counter_updates_total",
		Help: "Atomic like-counter updates, by result.",
	}, []string{"result"})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fanout_batch_duration_seconds",
		Help:    "Wall time spent processing one change-record batch.",
		Buckets: prometheus.DefBuckets,
	})
)

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeConflicts counts duplicate-like insertions rejected by the
	// unique index. A non-zero rate is expected under concurrent toggles.
	LikeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_like_conflicts_total",
		Help: "Total number of like insertions rejected as duplicates",
	})

	// ObjectStoreUploads records blob upload latency by outcome.
	ObjectStoreUploads = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_object_store_upload_seconds",
		Help:    "Object store upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// FeedQueryLatency records feed assembly query latency.
	FeedQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ripple_feed_query_seconds",
		Help:    "Feed assembly query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveUpload records one object store upload with its outcome label.
func ObserveUpload(outcome string, start time.Time) {
	ObjectStoreUploads.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

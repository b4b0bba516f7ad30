package telemetry

import (
	"time"

	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"
)

// TokenBucketLimiter throttles Bridge publish cycles. It wraps the same
// limiter.TokenBucket used by nmxmxh-inos_v1's gossip manager
// (kernel/core/mesh/routing/gossip.go) to rate-limit peer messages, here
// keyed on a single constant key since a Bridge has exactly one publish
// cadence rather than one per peer.
type TokenBucketLimiter struct {
	bucket *limiter.TokenBucket
}

const bridgeLimiterKey = "telemetry-bridge"

// NewTokenBucketLimiter constructs a limiter allowing up to burst
// back-to-back publishes, refilling at ratePerSecond thereafter. A
// construction error from the underlying library (malformed Config) is
// treated as "never allow" rather than panicking, matching gossip.go's own
// tolerance of a nil limiter.
func NewTokenBucketLimiter(ratePerSecond float64, burst int) *TokenBucketLimiter {
	bucket, _ := limiter.NewTokenBucket(
		limiter.Config{
			Rate:     int64(ratePerSecond),
			Duration: time.Second,
			Burst:    int64(burst),
		},
		store.NewMemoryStore(time.Minute),
	)
	return &TokenBucketLimiter{bucket: bucket}
}

// Allow reports whether a publish may proceed now, consuming a token if so.
func (l *TokenBucketLimiter) Allow() bool {
	if l.bucket == nil {
		return false
	}
	return l.bucket.Allow(bridgeLimiterKey)
}

// Package telemetry publishes periodic snapshots of every registered
// workload's state to one or more downstream consumers (SPEC_FULL.md
// §4.8), grounded on the teacher's loggingObserver/compositeObserver
// fan-out shape (observability.go) generalized from "per-tick summary" to
// "per-snapshot-interval publish".
package telemetry

import (
	"context"
	"time"

	"github.com/robotick-go/robotick"
)

// Publisher receives one encoded snapshot per publish cycle. Implementations
// own their own transport and must not block the bridge's snapshot loop for
// longer than is unavoidable; Publish is called synchronously from that
// loop, one publisher at a time, mirroring the teacher's compositeObserver
// fan-out.
type Publisher interface {
	Publish(snapshot Snapshot) error
	Close() error
}

// Snapshot is one named workload's state, ready for a Publisher to encode.
type Snapshot struct {
	Workload string         `json:"workload"`
	Type     string         `json:"type"`
	Fields   map[string]any `json:"fields"`
	AtUnix   int64          `json:"at_unix_nano"`
}

// Bridge periodically snapshots every instance in a Registry and fans each
// snapshot out to its Publishers, throttled by a rate limiter so a slow
// Publisher can't make the bridge fall arbitrarily far behind wall clock.
type Bridge struct {
	reg        *robotick.Registry
	publishers []Publisher
	interval   time.Duration
	limiter    Limiter
	logger     robotick.Logger
}

// Limiter throttles the bridge's publish cadence. It is satisfied by
// TokenBucketLimiter (limiter.go), which wraps
// github.com/yasserelgammal/rate-limiter's keyed token bucket (SPEC_FULL.md
// §4.8); the interface exists so tests can supply a deterministic fake.
type Limiter interface {
	Allow() bool
}

// NewBridge constructs a Bridge. If limiter is nil, every tick of interval
// is published unconditionally.
func NewBridge(reg *robotick.Registry, interval time.Duration, limiter Limiter, logger robotick.Logger, publishers ...Publisher) *Bridge {
	if logger == nil {
		logger = robotick.NopLogger{}
	}
	return &Bridge{reg: reg, publishers: publishers, interval: interval, limiter: limiter, logger: logger}
}

// Run snapshots and publishes on Bridge's interval until ctx is canceled.
func (b *Bridge) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.limiter != nil && !b.limiter.Allow() {
				continue
			}
			b.publishOnce()
		}
	}
}

func (b *Bridge) publishOnce() {
	for typeName, instances := range b.reg.AllInstances() {
		for _, inst := range instances {
			base := inst.Base()
			snap := Snapshot{
				Workload: base.Name,
				Type:     typeName,
				Fields:   valuesToAny(base.State.Snapshot()),
				AtUnix:   time.Now().UnixNano(),
			}
			for _, pub := range b.publishers {
				if err := pub.Publish(snap); err != nil {
					b.logger.With("workload", base.Name).Error("telemetry publish failed", "err", err)
				}
			}
		}
	}
}

func valuesToAny(fields map[string]robotick.Value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v.Any()
	}
	return out
}

// Close closes every publisher, collecting the first error.
func (b *Bridge) Close() error {
	var first error
	for _, pub := range b.publishers {
		if err := pub.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

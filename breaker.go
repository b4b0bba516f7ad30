package robotick

import (
	"time"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/sony/gobreaker"
)

// tickBreaker wraps a workload's Tick call with a circuit breaker
// (SPEC_FULL.md §4.10): spec.md §7 already says a TickFailure is "logged,
// loop continues" — after five consecutive failures the breaker trips
// open for a two-second cooldown, during which the scheduler skips calling Tick (but
// still runs PreTick/PostTick and still co-ticks children) rather than
// retrying a call that is failing every cycle. This is grounded on the
// circuit-breaker usage pulled from nmxmxh-inos_v1's dependency set; the
// teacher has no equivalent since ecs's ErrorPolicyContinue just logs and
// moves on every cycle with no cooldown.
type tickBreaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger Logger
	seen   *dedupFilter
}

func newTickBreaker(name string, logger Logger) *tickBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &tickBreaker{
		cb:     gobreaker.NewCircuitBreaker[any](settings),
		name:   name,
		logger: logger,
		seen:   newDedupFilter(),
	}
}

// run executes fn through the breaker. When the breaker is open, fn is not
// called at all and run returns the breaker's own ErrOpenState, which the
// tick loop treats exactly like any other TickFailure: logged (deduplicated
// below) and swallowed so the cycle continues.
func (tb *tickBreaker) run(fn func() error) error {
	if tb == nil {
		return fn()
	}
	_, err := tb.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if err != nil && tb.logger != nil && tb.seen.shouldLog(tb.name+":"+err.Error()) {
		tb.logger.With("workload", tb.name).Error("tick failure", "err", err, "breaker_state", tb.cb.State().String())
	}
	return err
}

// dedupFilter suppresses repeated identical log lines using a small bloom
// filter keyed by message (SPEC_FULL.md §4.11), reset on a fixed cadence so
// a warning that recurs after a long quiet period is still surfaced. This
// only throttles log volume; it never changes what TickFailure returns to
// the caller.
type dedupFilter struct {
	filter    *bloom.BloomFilter
	resetAt   time.Time
	resetEach time.Duration
}

func newDedupFilter() *dedupFilter {
	return &dedupFilter{
		filter:    bloom.NewWithEstimates(1024, 0.01),
		resetAt:   time.Now().Add(time.Minute),
		resetEach: time.Minute,
	}
}

func (d *dedupFilter) shouldLog(key string) bool {
	if time.Now().After(d.resetAt) {
		d.filter = bloom.NewWithEstimates(1024, 0.01)
		d.resetAt = time.Now().Add(d.resetEach)
	}
	k := []byte(key)
	if d.filter.Test(k) {
		return false
	}
	d.filter.Add(k)
	return true
}

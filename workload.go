package robotick

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Workload is satisfied by every concrete workload. Concrete types embed
// *WorkloadBase and must call SetSelf with themselves during construction
// so the base can dispatch to whichever optional lifecycle hooks
// (PreLoader, Loader, Setuper, PreTicker, Ticker, PostTicker, Stopper) the
// concrete type implements — Go has no virtual methods, so this is the
// idiomatic stand-in for the Python reference's overridable no-op hooks.
type Workload interface {
	Base() *WorkloadBase
}

// Optional lifecycle hooks. Each is a no-op by default in the sense that a
// workload simply doesn't implement the interface if it has nothing to do
// for that phase (spec.md §4.3).
type PreLoader interface{ PreLoad() error }
type Loader interface{ Load() error }
type Setuper interface{ Setup() error }
type PreTicker interface{ PreTick(dt time.Duration) }
type Ticker interface{ Tick(dt time.Duration) error }
type PostTicker interface{ PostTick(dt time.Duration) }
type Stopper interface{ Stop() error }

// WorkloadBase carries the lifecycle, tick-loop, binding, and timing state
// common to every workload (spec.md §3). It is grounded on the teacher's
// resourceMap/EntityRegistry dual of "plain struct + explicit constructor +
// mutex-guarded fields" (resource_container.go, entity.go), generalized to
// the reference workload_base.py's state machine.
type WorkloadBase struct {
	Name           string
	typeName       string
	TickRateHz     float64
	TickParentName string

	State *StateContainer

	self     Workload
	parent   Workload
	children []Workload

	bindings      *bindingTable
	rawBindings   []string
	stopRequested atomic.Bool
	lastTickNanos atomic.Int64
	loopDone      chan struct{}
	childExec     *childExecutor
	logger        Logger
	breaker       *tickBreaker
	metrics       *Metrics
}

// SetMetrics installs the Metrics collector tick timings are reported to.
// The Composer calls this during instantiation when WithMetrics was given.
func (b *WorkloadBase) SetMetrics(m *Metrics) { b.metrics = m }

// NewWorkloadBase constructs a base with the given default tick rate. name
// and tick_parent_name are set later by the Composer from config, mirroring
// spec.md §4.7 step 3.
func NewWorkloadBase(defaultTickRateHz float64) *WorkloadBase {
	return &WorkloadBase{
		TickRateHz: defaultTickRateHz,
		State:      NewStateContainer(),
		bindings:   newBindingTable(),
		logger:     NopLogger{},
	}
}

// SetSelf records the concrete workload that embeds this base. The
// Composer calls this automatically for every instantiated workload.
func (b *WorkloadBase) SetSelf(self Workload) { b.self = self }

// Base satisfies Workload, so WorkloadBase itself can stand in for
// workloads that have no lifecycle hooks of their own.
func (b *WorkloadBase) Base() *WorkloadBase { return b }

// TypeName returns the canonical snake_case registry key assigned by
// Registry.RegisterInstance.
func (b *WorkloadBase) TypeName() string { return b.typeName }

// Parent returns the resolved tick parent, if any (spec.md §3).
func (b *WorkloadBase) Parent() (Workload, bool) { return b.parent, b.parent != nil }

// Children returns the ordered list of attached child workloads
// (spec.md §3 — appended in Start by children resolving their parent).
func (b *WorkloadBase) Children() []Workload { return append([]Workload(nil), b.children...) }

// LastTickDuration returns the wall-clock duration of the most recent call
// to this workload's own tick (spec.md §3).
func (b *WorkloadBase) LastTickDuration() time.Duration {
	return time.Duration(b.lastTickNanos.Load())
}

func (b *WorkloadBase) setLastTickDuration(d time.Duration) {
	b.lastTickNanos.Store(int64(d))
}

// StopRequested reports whether Stop has been called; checked only between
// cycles by the tick loop (spec.md §4.4 — cancellation).
func (b *WorkloadBase) StopRequested() bool { return b.stopRequested.Load() }

// ReadableFields / WritableFields expose the underlying StateContainer's
// introspection lists.
func (b *WorkloadBase) ReadableFields() []string { return b.State.ReadableFields() }
func (b *WorkloadBase) WritableFields() []string { return b.State.WritableFields() }

// SetDataBindings stores the raw binding strings copied from config
// (spec.md §4.7 step 3 — "data_bindings ... stored but not yet resolved").
func (b *WorkloadBase) SetDataBindings(bindings []string) { b.rawBindings = bindings }

// ParseBindings resolves b.rawBindings against reg (spec.md §4.5). Called
// by the Composer during the setup phase, once per instance, against the
// full instance table.
func (b *WorkloadBase) ParseBindings(reg *Registry) error {
	return b.bindings.parseBindings(b.rawBindings, reg)
}

// SafeGet implements spec.md §4.5's pull semantics: an incoming binding
// shadows the local store, and chases exactly one link — the peer's own
// incoming binding (if any) is not transitively followed.
func (b *WorkloadBase) SafeGet(field string) Value {
	if src, ok := b.bindings.incoming[field]; ok {
		v, _ := src.peer.Base().localGet(src.field)
		return v
	}
	v, _ := b.localGet(field)
	return v
}

func (b *WorkloadBase) localGet(field string) (Value, bool) {
	return b.State.Get(field)
}

// SafeSet implements spec.md §4.5's push semantics: the local write lands
// first, then every outgoing binding target is written in turn. The
// StateContainer's own lock is never held across the fan-out (spec.md §5):
// State.Set acquires and releases its lock for the single map write before
// SafeSet ever calls into a peer.
func (b *WorkloadBase) SafeSet(field string, value Value) error {
	if err := b.State.Set(field, value); err != nil {
		return err
	}
	if targets, ok := b.bindings.outgoing[field]; ok {
		for _, t := range targets {
			// Write through the peer's own SafeSet so a peer that overrides
			// it (TransformerBase) recomputes on a bound write too.
			if s, ok := t.peer.(interface{ SafeSet(string, Value) error }); ok {
				_ = s.SafeSet(t.field, value)
				continue
			}
			_ = t.peer.Base().SafeSet(t.field, value)
		}
	}
	return nil
}

// callPreLoad, callLoad, ... invoke the optional hook on self if present.
func (b *WorkloadBase) callPreLoad() error {
	if h, ok := b.self.(PreLoader); ok {
		return h.PreLoad()
	}
	return nil
}

func (b *WorkloadBase) callLoad() error {
	if h, ok := b.self.(Loader); ok {
		return h.Load()
	}
	return nil
}

func (b *WorkloadBase) callSetup() error {
	if h, ok := b.self.(Setuper); ok {
		return h.Setup()
	}
	return nil
}

func (b *WorkloadBase) callPreTick(dt time.Duration) {
	if h, ok := b.self.(PreTicker); ok {
		h.PreTick(dt)
	}
}

// callTick invokes the workload's Tick hook through its circuit breaker
// (SPEC_FULL.md §4.10) and converts a panic escaping Tick into a
// TickFailure error instead of taking down the loop goroutine
// (spec.md §7 — "exception escaping tick; logged, loop continues").
func (b *WorkloadBase) callTick(dt time.Duration) error {
	h, ok := b.self.(Ticker)
	if !ok {
		return nil
	}
	return b.ensureBreaker().run(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("robotick: tick panicked: %v", r)
			}
		}()
		return h.Tick(dt)
	})
}

func (b *WorkloadBase) ensureBreaker() *tickBreaker {
	if b.breaker == nil {
		b.breaker = newTickBreaker(b.Name, b.logger)
	}
	return b.breaker
}

// SetLogger installs the Logger used for tick-failure and breaker
// diagnostics. The Composer calls this during instantiation, before load.
func (b *WorkloadBase) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	b.logger = logger
}

func (b *WorkloadBase) callPostTick(dt time.Duration) {
	if h, ok := b.self.(PostTicker); ok {
		h.PostTick(dt)
	}
}

func (b *WorkloadBase) callStop() error {
	if h, ok := b.self.(Stopper); ok {
		return h.Stop()
	}
	return nil
}

package robotick

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// Registrar records a package's workload types into a registry. Go has no
// equivalent of the Python reference's pkgutil.iter_modules auto-import
// (spec.md §4.7 step 1), so discovery is an explicit list of these,
// supplied by the caller (typically a cmd/ main that imports every
// workloads/... package and passes along its Register function).
type Registrar func(*Registry)

// Composer orchestrates the lifecycle phases of spec.md §4.7 that follow
// discovery: parse, instantiate, pre_load, load, setup+bind, start. It is
// grounded on the teacher's NewScheduler/basicScheduler construction style
// (builder-free here since the composer has no tunables worth a builder,
// unlike the teacher's SchedulerBuilder).
type Composer struct {
	logger    Logger
	stopGrace time.Duration
	metrics   *Metrics
}

// ComposerOption configures a Composer at construction.
type ComposerOption func(*Composer)

// WithLogger installs the Logger every instantiated workload receives.
func WithLogger(logger Logger) ComposerOption {
	return func(c *Composer) { c.logger = logger }
}

// WithMetrics installs a Metrics collector every instantiated workload
// reports its tick timings to.
func WithMetrics(m *Metrics) ComposerOption {
	return func(c *Composer) { c.metrics = m }
}

// WithStopGrace overrides the default grace period Handle.StopAll waits for
// each loop to join before reporting ErrStopTimeout.
func WithStopGrace(d time.Duration) ComposerOption {
	return func(c *Composer) { c.stopGrace = d }
}

// NewComposer constructs a Composer with the given options.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{logger: NopLogger{}, stopGrace: 5 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle is returned by Load: the live instance set and a stop function,
// matching spec.md §4.7 step 8 / §6's `{ instances, stop_all }`.
type Handle struct {
	Instances []Workload
	Registry  *Registry

	composer *Composer
	stopOnce sync.Once
}

// StopAll calls Stop on every instance in construction order and blocks
// until every owning loop has exited (or its grace period elapses). It is
// idempotent: a second call is a no-op (spec.md §8).
func (h *Handle) StopAll() error {
	var outErr error
	h.stopOnce.Do(func() {
		for _, inst := range h.Instances {
			base := inst.Base()
			base.requestStop()
		}
		for _, inst := range h.Instances {
			base := inst.Base()
			if err := base.joinLoop(h.composer.stopGrace); err != nil && outErr == nil {
				outErr = err
			}
			if err := base.callStop(); err != nil && outErr == nil {
				outErr = err
			}
		}
	})
	return outErr
}

// Load implements spec.md §4.7: discovery, parse, instantiate, pre_load
// (serial), load (parallel), setup (serial, with binding resolution),
// start (serial). Any phase failure aborts and best-effort stops whatever
// was already started (spec.md §7).
func (c *Composer) Load(configPath string, registrars []Registrar) (*Handle, error) {
	reg := NewRegistry()
	for _, r := range registrars {
		r(reg)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("robotick: read config: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("robotick: parse config: %w", err)
	}

	instances, err := c.instantiate(reg, doc)
	if err != nil {
		return nil, err
	}

	if err := c.preLoadAll(instances); err != nil {
		return nil, err
	}

	if err := c.loadAll(instances); err != nil {
		return nil, err
	}

	if err := c.setupAll(instances, reg); err != nil {
		return nil, err
	}

	started, startErr := c.startAll(instances, reg)
	if startErr != nil {
		c.unwind(started)
		return nil, startErr
	}

	return &Handle{Instances: instances, Registry: reg, composer: c}, nil
}

func (c *Composer) instantiate(reg *Registry, doc *Document) ([]Workload, error) {
	names := make(map[string]struct{})
	instances := make([]Workload, 0, len(doc.Workloads))
	for _, cfg := range doc.Workloads {
		ctor, ok := reg.GetType(cfg.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, cfg.Type)
		}
		inst := ctor()
		inst.SetSelf(inst)
		inst.Base().Name = cfg.Name
		inst.Base().SetLogger(c.logger)
		if c.metrics != nil {
			inst.Base().SetMetrics(c.metrics)
		}

		if cfg.Name != "" {
			if _, dup := names[cfg.Name]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateName, cfg.Name)
			}
			names[cfg.Name] = struct{}{}
		}

		reg.RegisterInstance(cfg.Type, inst)

		if err := applyArgs(inst, cfg.Args); err != nil {
			return nil, fmt.Errorf("robotick: workload %q: %w", cfg.Name, err)
		}

		instances = append(instances, inst)
	}
	return instances, nil
}

// preLoadAll runs pre_load serially (spec.md §4.7 step 4).
func (c *Composer) preLoadAll(instances []Workload) error {
	for _, inst := range instances {
		if err := inst.Base().callPreLoad(); err != nil {
			return fmt.Errorf("robotick: pre_load %q: %w", inst.Base().Name, err)
		}
	}
	return nil
}

// loadAll runs load in parallel on a pool sized to available cores
// (spec.md §4.7 step 5), collecting the first error.
func (c *Composer) loadAll(instances []Workload) error {
	if len(instances) == 0 {
		return nil
	}
	p := newPool(runtime.GOMAXPROCS(0))
	defer p.Close()

	results := make([]<-chan error, len(instances))
	for i, inst := range instances {
		inst := inst
		results[i] = p.Submit(func() error { return inst.Base().callLoad() })
	}
	for i, res := range results {
		if err := <-res; err != nil {
			return fmt.Errorf("robotick: load %q: %w", instances[i].Base().Name, err)
		}
	}
	return nil
}

// setupAll resolves bindings against the full instance table, then runs
// setup serially (spec.md §4.7 step 6).
func (c *Composer) setupAll(instances []Workload, reg *Registry) error {
	for _, inst := range instances {
		if err := inst.Base().ParseBindings(reg); err != nil {
			return fmt.Errorf("robotick: bindings %q: %w", inst.Base().Name, err)
		}
	}
	for _, inst := range instances {
		if err := inst.Base().callSetup(); err != nil {
			return fmt.Errorf("robotick: setup %q: %w", inst.Base().Name, err)
		}
	}
	return nil
}

// startAll runs start serially (spec.md §4.7 step 7), returning the
// instances that were actually started so the caller can unwind on
// failure.
func (c *Composer) startAll(instances []Workload, reg *Registry) ([]Workload, error) {
	started := make([]Workload, 0, len(instances))
	for _, inst := range instances {
		if err := inst.Base().start(reg, inst); err != nil {
			return started, fmt.Errorf("robotick: start %q: %w", inst.Base().Name, err)
		}
		started = append(started, inst)
	}
	return started, nil
}

// unwind best-effort stops whatever was already started when a later
// phase fails (spec.md §7), in the same construction order the teacher's
// CommandBuffer would have drained deferred mutations — adapted here into
// a simple start ledger since the composer runs this once per process
// rather than once per tick.
func (c *Composer) unwind(started []Workload) {
	for _, inst := range started {
		base := inst.Base()
		base.requestStop()
		_ = base.joinLoop(c.stopGrace)
		_ = base.callStop()
	}
}

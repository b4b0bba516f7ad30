package robotick

import (
	"sync"
	"time"
)

// childExecutor is the single-worker thread pool a parent owns to fan out
// its children (spec.md §5), adapted from the teacher's workerPool
// (worker_pool.go) with the pool size fixed at one: children always run
// together, in declared order, on that one worker.
type childExecutor struct {
	jobs   chan childJob
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

type childJob struct {
	fn   func()
	done chan struct{}
}

func newChildExecutor() *childExecutor {
	e := &childExecutor{
		jobs:   make(chan childJob),
		closed: make(chan struct{}),
	}
	e.wg.Add(1)
	go e.worker()
	return e
}

func (e *childExecutor) worker() {
	defer e.wg.Done()
	for {
		select {
		case job, ok := <-e.jobs:
			if !ok {
				return
			}
			job.fn()
			close(job.done)
		case <-e.closed:
			return
		}
	}
}

// Submit hands fn to the single worker and returns a channel closed when fn
// completes. The caller is expected to wait on it before the cycle ends
// (spec.md §4.4 step 5).
func (e *childExecutor) Submit(fn func()) <-chan struct{} {
	done := make(chan struct{})
	job := childJob{fn: fn, done: done}
	select {
	case <-e.closed:
		close(done)
		return done
	default:
	}
	if !safeSendChildJob(e.jobs, job) {
		close(done)
	}
	return done
}

// Close shuts the executor down, waiting for whatever job is currently
// in flight (spec.md §4.4 — "child-executor shutdown waits for the
// current child task").
func (e *childExecutor) Close() {
	e.once.Do(func() { close(e.closed) })
	e.wg.Wait()
}

func safeSendChildJob(ch chan childJob, job childJob) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	ch <- job
	return true
}

// start applies spec.md §4.3's start policy. self is the concrete workload
// being started (identical to what SetSelf recorded, passed again here so
// start can attach it to a parent's children slice without the caller
// needing access to WorkloadBase internals).
func (b *WorkloadBase) start(reg *Registry, self Workload) error {
	if b.TickParentName != "" {
		parent, ok := reg.FindByName(b.TickParentName)
		if !ok {
			return ErrUnknownParent
		}
		parentBase := parent.Base()
		parentBase.children = append(parentBase.children, self)
		b.parent = parent
		b.TickRateHz = 0
		return nil
	}
	if b.TickRateHz > 0 {
		b.loopDone = make(chan struct{})
		go b.runLoop()
	}
	return nil
}

// tickPeriod returns 1/TickRateHz, or 0 if the workload doesn't
// self-schedule.
func (b *WorkloadBase) tickPeriod() time.Duration {
	if b.TickRateHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / b.TickRateHz)
}

// runLoop is the owning goroutine for a periodic, parent-less workload
// (spec.md §4.4).
func (b *WorkloadBase) runLoop() {
	lastTime := time.Now()
	for {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		b.callPreTick(dt)

		var childDone <-chan struct{}
		if len(b.children) > 0 {
			if b.childExec == nil {
				b.childExec = newChildExecutor()
			}
			children := b.children
			childDone = b.childExec.Submit(func() { tickChildrenInOrder(children, dt) })
		}

		b.tickTimed(dt)

		if childDone != nil {
			<-childDone
		}

		b.callPostTick(dt)

		period := b.tickPeriod()
		elapsed := time.Since(now)
		if sleep := period - elapsed; sleep > 0 {
			time.Sleep(sleep)
		}

		if b.stopRequested.Load() {
			if b.childExec != nil {
				b.childExec.Close()
			}
			close(b.loopDone)
			return
		}
	}
}

// tickChildrenInOrder runs pre_tick/tick/post_tick for each child in
// declared (attach) order, on the single child-executor worker — this is
// the "tick-all-children" task of spec.md §4.4 step 3.
func tickChildrenInOrder(children []Workload, dt time.Duration) {
	for _, child := range children {
		child.Base().tickOnce(dt)
	}
}

// tickOnce runs PreTick, a timed Tick (if implemented — a child with no
// Tick method contributes exactly zero duration, spec.md §8), then
// PostTick.
func (b *WorkloadBase) tickOnce(dt time.Duration) {
	b.callPreTick(dt)
	b.tickTimed(dt)
	b.callPostTick(dt)
}

func (b *WorkloadBase) tickTimed(dt time.Duration) {
	if _, ok := b.self.(Ticker); !ok {
		b.setLastTickDuration(0)
		return
	}
	start := time.Now()
	err := b.callTick(dt) // TickFailure is logged by the breaker; loop continues.
	elapsed := time.Since(start)
	b.setLastTickDuration(elapsed)
	if b.metrics != nil {
		b.metrics.ObserveTick(b.Name, b.typeName, elapsed, err)
	}
}

// requestStop sets the cooperative-cancellation flag checked between
// cycles (spec.md §4.4).
func (b *WorkloadBase) requestStop() { b.stopRequested.Store(true) }

// joinLoop waits for the owning loop goroutine to exit, or reports
// ErrStopTimeout if it doesn't within grace.
func (b *WorkloadBase) joinLoop(grace time.Duration) error {
	if b.loopDone == nil {
		return nil
	}
	select {
	case <-b.loopDone:
		return nil
	case <-time.After(grace):
		return ErrStopTimeout
	}
}

package robotick

import (
	"errors"
	"testing"
	"time"
)

type hookedWorkload struct {
	*WorkloadBase
	preLoadCalled bool
	loadCalled    bool
	setupCalled   bool
	stopCalled    bool
	stopErr       error
}

func newHookedWorkload() *hookedWorkload {
	w := &hookedWorkload{WorkloadBase: NewWorkloadBase(0)}
	w.SetSelf(w)
	return w
}

func (w *hookedWorkload) PreLoad() error { w.preLoadCalled = true; return nil }
func (w *hookedWorkload) Load() error    { w.loadCalled = true; return nil }
func (w *hookedWorkload) Setup() error   { w.setupCalled = true; return nil }
func (w *hookedWorkload) Stop() error    { w.stopCalled = true; return w.stopErr }

func TestWorkloadLifecycleHooksAreDispatchedWhenImplemented(t *testing.T) {
	w := newHookedWorkload()

	if err := w.callPreLoad(); err != nil {
		t.Fatalf("callPreLoad: %v", err)
	}
	if err := w.callLoad(); err != nil {
		t.Fatalf("callLoad: %v", err)
	}
	if err := w.callSetup(); err != nil {
		t.Fatalf("callSetup: %v", err)
	}
	if err := w.callStop(); err != nil {
		t.Fatalf("callStop: %v", err)
	}

	if !w.preLoadCalled || !w.loadCalled || !w.setupCalled || !w.stopCalled {
		t.Fatalf("not all hooks dispatched: %+v", w)
	}
}

type bareWorkload struct {
	*WorkloadBase
}

func newBareWorkload() *bareWorkload {
	w := &bareWorkload{WorkloadBase: NewWorkloadBase(0)}
	w.SetSelf(w)
	return w
}

func TestWorkloadMissingHooksAreNoOps(t *testing.T) {
	w := newBareWorkload()

	if err := w.callPreLoad(); err != nil {
		t.Fatalf("callPreLoad on bare base: %v", err)
	}
	if err := w.callLoad(); err != nil {
		t.Fatalf("callLoad on bare base: %v", err)
	}
	if err := w.callSetup(); err != nil {
		t.Fatalf("callSetup on bare base: %v", err)
	}
	if err := w.callStop(); err != nil {
		t.Fatalf("callStop on bare base: %v", err)
	}
}

func TestWorkloadCallTickRecoversPanic(t *testing.T) {
	w := newRecordingWorkloadInternal(true)
	err := w.callTick(0)
	if err == nil {
		t.Fatal("expected an error recovered from the panicking Tick hook")
	}
}

func TestWorkloadCallTickPropagatesError(t *testing.T) {
	w := newRecordingWorkloadInternal(false)
	w.nextErr = errors.New("tick failed")
	if err := w.callTick(0); !errors.Is(err, w.nextErr) {
		t.Fatalf("err = %v, want %v", err, w.nextErr)
	}
}

type internalRecordingWorkload struct {
	*WorkloadBase
	panicky bool
	nextErr error
}

func newRecordingWorkloadInternal(panicky bool) *internalRecordingWorkload {
	w := &internalRecordingWorkload{WorkloadBase: NewWorkloadBase(0), panicky: panicky}
	w.SetSelf(w)
	return w
}

func (w *internalRecordingWorkload) Tick(dt time.Duration) error {
	if w.panicky {
		panic("boom")
	}
	return w.nextErr
}

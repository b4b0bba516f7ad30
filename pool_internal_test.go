package robotick

import (
	"errors"
	"testing"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	p := newPool(2)
	defer p.Close()

	results := make([]<-chan error, 5)
	for i := range results {
		results[i] = p.Submit(func() error { return nil })
	}
	for i, res := range results {
		if err := <-res; err != nil {
			t.Fatalf("job %d: %v", i, err)
		}
	}
}

func TestPoolPropagatesJobError(t *testing.T) {
	p := newPool(1)
	defer p.Close()

	want := errors.New("boom")
	res := p.Submit(func() error { return want })
	if err := <-res; !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestPoolSubmitAfterCloseReturnsClosedError(t *testing.T) {
	p := newPool(1)
	p.Close()

	res := p.Submit(func() error { return nil })
	if err := <-res; !errors.Is(err, ErrWorkerPoolClosed) {
		t.Fatalf("err = %v, want ErrWorkerPoolClosed", err)
	}
}

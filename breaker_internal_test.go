package robotick

import (
	"errors"
	"testing"
)

func TestTickBreakerRunPassesThroughSuccess(t *testing.T) {
	tb := newTickBreaker("t", NopLogger{})
	if err := tb.run(func() error { return nil }); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestTickBreakerRunPropagatesError(t *testing.T) {
	tb := newTickBreaker("t", NopLogger{})
	want := errors.New("tick failed")
	if err := tb.run(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestDedupFilterSuppressesRepeats(t *testing.T) {
	d := newDedupFilter()
	if !d.shouldLog("k") {
		t.Fatal("first occurrence should log")
	}
	if d.shouldLog("k") {
		t.Fatal("second occurrence of the same key should be suppressed")
	}
	if !d.shouldLog("other") {
		t.Fatal("a distinct key should still log")
	}
}

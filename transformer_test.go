package robotick_test

import (
	"testing"

	"github.com/robotick-go/robotick"
)

type doublingTransformer struct {
	*robotick.TransformerBase
	calls int
}

func newDoublingTransformer() *doublingTransformer {
	t := &doublingTransformer{TransformerBase: robotick.NewTransformerBase([]string{"in"}, []string{"out"})}
	t.SetSelf(t)
	return t
}

func (t *doublingTransformer) Transform(inputs []robotick.Value) []robotick.Value {
	t.calls++
	n, _ := inputs[0].Float()
	return []robotick.Value{robotick.Float64(n * 2)}
}

func TestTransformerRecomputesOnInputWrite(t *testing.T) {
	tr := newDoublingTransformer()

	if err := tr.SafeSet("in", robotick.Float64(3)); err != nil {
		t.Fatalf("SafeSet: %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("calls = %d, want 1", tr.calls)
	}

	out := tr.SafeGet("out")
	if f, _ := out.Float(); f != 6 {
		t.Fatalf("out = %v, want 6", f)
	}
}

func TestTransformerRecomputesOnOutputRead(t *testing.T) {
	tr := newDoublingTransformer()
	_ = tr.SafeSet("in", robotick.Float64(4))
	before := tr.calls

	// Reading the output again triggers a fresh recompute even with no new
	// input, matching spec.md §4.6's pull-triggers-recompute semantics.
	_ = tr.SafeGet("out")
	if tr.calls != before+1 {
		t.Fatalf("calls = %d, want %d", tr.calls, before+1)
	}
}

func TestTransformerIgnoresWritesToUnrelatedFields(t *testing.T) {
	tr := newDoublingTransformer()
	tr.State.DeclareWritable("unrelated", robotick.Nil)

	if err := tr.SafeSet("unrelated", robotick.Int64(1)); err != nil {
		t.Fatalf("SafeSet: %v", err)
	}
	if tr.calls != 0 {
		t.Fatalf("calls = %d, want 0 (unrelated field must not trigger recompute)", tr.calls)
	}
}

package robotick

// Transformer is implemented by stateless, on-demand compute nodes
// (spec.md §4.6). Unlike the Python reference, which infers inputs from
// `transform`'s positional parameters and disambiguates outputs by
// (sometimes ambiguous) tuple unpacking, this declares both lists
// explicitly — the Design Notes §9 resolution to that open question.
type Transformer interface {
	Workload
	InputNames() []string
	OutputNames() []string
	// Transform derives outputs from the current writable-input values, in
	// the order declared by InputNames, returning one Value per name
	// declared by OutputNames, in that order.
	Transform(inputs []Value) []Value
}

// TransformerBase implements the push-triggered dataflow described in
// spec.md §4.6: on SafeSet of any declared input, Transform runs and every
// output is written to its corresponding readable field; on SafeGet of any
// declared output, Transform runs first so the read observes a fresh
// value. It embeds WorkloadBase with TickRateHz forced to zero — a
// transformer never schedules its own loop.
type TransformerBase struct {
	*WorkloadBase
	inputs  []string
	outputs []string
}

// NewTransformerBase declares inputs as writable fields and outputs as
// readable fields and wires the push/pull-triggered recompute. Concrete
// transformers call this from their constructor, then call SetSelf with
// themselves (so Transform can be located).
func NewTransformerBase(inputs, outputs []string) *TransformerBase {
	t := &TransformerBase{
		WorkloadBase: NewWorkloadBase(0),
		inputs:       append([]string(nil), inputs...),
		outputs:      append([]string(nil), outputs...),
	}
	for _, name := range inputs {
		t.State.DeclareWritable(name, Nil)
	}
	for _, name := range outputs {
		t.State.DeclareReadable(name, Nil)
	}
	return t
}

func (t *TransformerBase) InputNames() []string  { return append([]string(nil), t.inputs...) }
func (t *TransformerBase) OutputNames() []string { return append([]string(nil), t.outputs...) }

// SafeSet overrides WorkloadBase.SafeSet: after the normal local write (and
// any outgoing-binding fan-out) completes, a write to a declared input
// triggers a recompute.
func (t *TransformerBase) SafeSet(field string, value Value) error {
	if err := t.WorkloadBase.SafeSet(field, value); err != nil {
		return err
	}
	for _, name := range t.inputs {
		if name == field {
			t.recompute()
			break
		}
	}
	return nil
}

// SafeGet overrides WorkloadBase.SafeGet: a read of a declared output
// triggers a recompute first, then returns the freshly stored value.
func (t *TransformerBase) SafeGet(field string) Value {
	for _, name := range t.outputs {
		if name == field {
			t.recompute()
			break
		}
	}
	return t.WorkloadBase.SafeGet(field)
}

func (t *TransformerBase) recompute() {
	fn, ok := t.self.(Transformer)
	if !ok {
		return
	}
	args := make([]Value, len(t.inputs))
	for i, name := range t.inputs {
		v, _ := t.WorkloadBase.localGet(name)
		args[i] = v
	}
	results := fn.Transform(args)
	for i, name := range t.outputs {
		if i >= len(results) {
			break
		}
		_ = t.WorkloadBase.State.Set(name, results[i])
		if targets, ok := t.WorkloadBase.bindings.outgoing[name]; ok {
			for _, target := range targets {
				_ = target.peer.Base().SafeSet(target.field, results[i])
			}
		}
	}
}

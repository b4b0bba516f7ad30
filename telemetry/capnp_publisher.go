package telemetry

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	capnp "zombiezen.com/go/capnproto2"
)

// CapnpPublisher writes each Snapshot as a single-segment Cap'n Proto
// message to w: a root struct holding the workload name, type, and the
// JSON-encoded field map as a data blob. A full generated schema (the usual
// capnpc-go workflow) is overkill for a field map whose shape changes
// per-workload-type; encoding the variable part as an embedded JSON blob
// inside a minimal fixed struct keeps the wire format capnp-native (segment
// framing, zero-copy struct header) without hand-maintaining a schema per
// workload type. Grounded on SPEC_FULL.md §4.8's binary-publisher
// requirement; no teacher or pack repo uses capnproto directly, so the
// message shape below is this repo's own.
type CapnpPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewCapnpPublisher writes framed messages to w as they're published.
func NewCapnpPublisher(w io.Writer) *CapnpPublisher {
	return &CapnpPublisher{w: w}
}

const (
	capnpFieldName = iota
	capnpFieldType
	capnpFieldPayload
)

// Publish encodes snapshot into a single-segment message and writes it to w,
// framed by capnp.NewEncoder.
func (p *CapnpPublisher) Publish(snapshot Snapshot) error {
	payload, err := jsonAPI.Marshal(snapshot.Fields)
	if err != nil {
		return errors.Wrap(err, "telemetry: marshal capnp payload")
	}

	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return errors.Wrap(err, "telemetry: new capnp message")
	}

	root, err := capnp.NewRootStruct(seg, capnp.ObjectSize{DataSize: 8, PointerCount: 3})
	if err != nil {
		return errors.Wrap(err, "telemetry: new capnp root struct")
	}
	root.SetUint64(0, uint64(snapshot.AtUnix))

	if err := setTextPtr(&root, capnpFieldName, snapshot.Workload); err != nil {
		return err
	}
	if err := setTextPtr(&root, capnpFieldType, snapshot.Type); err != nil {
		return err
	}
	data, err := capnp.NewData(seg, payload)
	if err != nil {
		return errors.Wrap(err, "telemetry: new capnp data")
	}
	if err := root.SetPtr(capnpFieldPayload, data.ToPtr()); err != nil {
		return errors.Wrap(err, "telemetry: set capnp payload ptr")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return capnp.NewEncoder(p.w).Encode(msg)
}

func setTextPtr(root *capnp.Struct, index int, value string) error {
	txt, err := capnp.NewText(root.Segment(), value)
	if err != nil {
		return errors.Wrap(err, "telemetry: new capnp text")
	}
	return errors.Wrap(root.SetPtr(index, txt.ToPtr()), "telemetry: set capnp text ptr")
}

// Close is a no-op: CapnpPublisher does not own w's lifecycle.
func (p *CapnpPublisher) Close() error { return nil }

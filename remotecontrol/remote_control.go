// Package remotecontrol lets an operator console drive writable workload
// fields over a WebRTC DataChannel instead of the local config/bindings
// graph (SPEC_FULL.md §4.9) — useful for teleoperating a simulator or robot
// from a browser without a websocket round trip through the telemetry
// bridge's own transport.
package remotecontrol

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
	"github.com/robotick-go/robotick"
)

// Command is one remote write: set Workload.Field to Value.
type Command struct {
	Workload string          `json:"workload"`
	Field    string          `json:"field"`
	Value    json.RawMessage `json:"value"`
}

// Link owns one peer connection's control DataChannel and applies incoming
// Commands against a Registry's instances via SafeSet, the same entry point
// the binding graph itself uses — a remote write fans out through any
// outgoing bindings exactly like a local one (spec.md §4.5).
type Link struct {
	id      string
	reg     *robotick.Registry
	pc      *webrtc.PeerConnection
	dc      *webrtc.DataChannel
	logger  robotick.Logger
	mu      sync.Mutex
	onError func(error)
}

// ID uniquely identifies this link for logging and operator-console display.
func (l *Link) ID() string { return l.id }

// NewLink creates a PeerConnection with a single ordered, reliable
// DataChannel named "robotick-control" and wires its message handler to
// decode and apply Commands against reg.
func NewLink(reg *robotick.Registry, logger robotick.Logger) (*Link, error) {
	if logger == nil {
		logger = robotick.NopLogger{}
	}
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, fmt.Errorf("remotecontrol: new peer connection: %w", err)
	}

	ordered := true
	dc, err := pc.CreateDataChannel("robotick-control", &webrtc.DataChannelInit{Ordered: &ordered})
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("remotecontrol: create data channel: %w", err)
	}

	l := &Link{id: uuid.NewString(), reg: reg, pc: pc, dc: dc, logger: logger}
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		l.handleMessage(msg.Data)
	})
	return l, nil
}

func (l *Link) handleMessage(raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		l.reportError(fmt.Errorf("remotecontrol: decode command: %w", err))
		return
	}
	if err := l.Apply(cmd); err != nil {
		l.reportError(err)
	}
}

// Apply resolves cmd.Workload against the registry and writes cmd.Value to
// cmd.Field via SafeSet.
func (l *Link) Apply(cmd Command) error {
	inst, ok := l.reg.FindByName(cmd.Workload)
	if !ok {
		return fmt.Errorf("remotecontrol: %w: %s", robotick.ErrUnknownPeer, cmd.Workload)
	}

	var raw any
	if err := json.Unmarshal(cmd.Value, &raw); err != nil {
		return fmt.Errorf("remotecontrol: decode value: %w", err)
	}
	value, err := robotick.ValueFromAny(raw)
	if err != nil {
		return fmt.Errorf("remotecontrol: %w", err)
	}

	if err := inst.Base().SafeSet(cmd.Field, value); err != nil {
		return fmt.Errorf("remotecontrol: set %s.%s: %w", cmd.Workload, cmd.Field, err)
	}
	return nil
}

// OnError installs a callback invoked whenever an inbound command fails to
// decode or apply. Errors are otherwise only logged.
func (l *Link) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

func (l *Link) reportError(err error) {
	l.logger.Error("remote control command failed", "err", err)
	l.mu.Lock()
	fn := l.onError
	l.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// PeerConnection exposes the underlying connection for SDP offer/answer
// exchange, which this package intentionally leaves to the caller's own
// signaling channel (SPEC_FULL.md §4.9 — signaling transport is out of
// scope; this package owns only the data channel once connected).
func (l *Link) PeerConnection() *webrtc.PeerConnection { return l.pc }

// Close tears down the peer connection.
func (l *Link) Close() error {
	return l.pc.Close()
}

// Package interfaces holds workloads whose purpose is exposing an external
// I/O surface (teleop, console) rather than performing computation.
package interfaces

import "github.com/robotick-go/robotick"

// RemoteControlInterface is a zero-rate workload (spec.md's "on demand, no
// self-schedule") that exists purely so a remotecontrol.Link has a named
// instance to target: teleop input lands on its writable fields
// (drive_speed, drive_turn) via SafeSet, exactly the same entry point any
// other binding uses, and downstream transformers/controllers bind to those
// fields like any other peer's readable output. Grounded on
// original_source's remote_control_interface.py /
// remote_control_device.py → steering-mixer pipeline shape.
type RemoteControlInterface struct {
	*robotick.WorkloadBase
}

// NewRemoteControlInterface constructs the interface with its two writable
// teleop fields.
func NewRemoteControlInterface() *RemoteControlInterface {
	r := &RemoteControlInterface{WorkloadBase: robotick.NewWorkloadBase(0)}
	r.State.DeclareWritable("drive_speed", robotick.Float64(0))
	r.State.DeclareWritable("drive_turn", robotick.Float64(0))
	r.SetSelf(r)
	return r
}

// Register records RemoteControlInterface under its canonical registry name.
func Register(reg *robotick.Registry) {
	reg.RegisterType("RemoteControlInterface", func() robotick.Workload { return NewRemoteControlInterface() })
}

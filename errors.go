package robotick

import "errors"

var (
	// ErrUnknownType indicates a config entry names a type not in the registry.
	// Fatal at instantiation.
	ErrUnknownType = errors.New("robotick: unknown workload type")
	// ErrUnknownPeer indicates a binding references a name not among loaded
	// instances. Fatal at setup.
	ErrUnknownPeer = errors.New("robotick: unknown binding peer")
	// ErrUnknownField is returned by safe_set on a field present in neither
	// the readable nor the writable map.
	ErrUnknownField = errors.New("robotick: unknown field")
	// ErrUnknownParent indicates tick_parent_name does not resolve to a
	// registered instance.
	ErrUnknownParent = errors.New("robotick: unknown tick parent")
	// ErrUnknownConfig indicates a config args key has no matching field on
	// the target workload's configuration struct.
	ErrUnknownConfig = errors.New("robotick: unknown config key")
	// ErrDuplicateName indicates two instances were declared with the same
	// non-empty name.
	ErrDuplicateName = errors.New("robotick: duplicate workload name")
	// ErrStopTimeout is reported when a loop fails to join within the grace
	// period given to Handle.StopAll; the thread is abandoned.
	ErrStopTimeout = errors.New("robotick: loop did not stop within grace period")
	// ErrWorkerPoolClosed indicates a job was submitted to a pool after
	// Close.
	ErrWorkerPoolClosed = errors.New("robotick: worker pool closed")
)

// Package simulators holds physical-plant simulation workloads used in
// place of real hardware during development.
package simulators

import (
	"math"
	"time"

	"github.com/robotick-go/robotick"
)

// BalancingRobotSimulator ports the Python reference's
// BalancingRobotSimulator (original_source/.../balancing_robot_simulator.py):
// a minimal single-body inverted-pendulum model driven by per-wheel torque
// inputs, ticking at 500Hz by default.
type BalancingRobotSimulator struct {
	*robotick.WorkloadBase

	Mass        float64
	WheelRadius float64
	TrackWidth  float64
	BodyWidth   float64
	BodyDepth   float64
	Gravity     float64
}

var stateVars = []string{"x", "y", "yaw", "pitch", "roll", "legs_height", "dx", "dy", "dyaw", "dpitch"}

// NewBalancingRobotSimulator constructs the simulator with the reference's
// default physical constants.
func NewBalancingRobotSimulator() *BalancingRobotSimulator {
	s := &BalancingRobotSimulator{
		WorkloadBase: robotick.NewWorkloadBase(500),
		Mass:         10.0,
		WheelRadius:  0.025,
		TrackWidth:   0.2,
		BodyWidth:    0.15,
		BodyDepth:    0.10,
		Gravity:      9.81,
	}
	for _, name := range stateVars {
		s.State.DeclareReadable(name, robotick.Float64(0))
	}
	s.State.DeclareWritable("wheel_torque_L", robotick.Float64(0))
	s.State.DeclareWritable("wheel_torque_R", robotick.Float64(0))
	s.State.DeclareWritable("leg_height_L", robotick.Float64(0.3))
	s.State.DeclareWritable("leg_height_R", robotick.Float64(0.3))
	s.SetSelf(s)
	return s
}

func (s *BalancingRobotSimulator) readable(name string) float64 {
	return s.SafeGet(name).FloatOr(0)
}

func (s *BalancingRobotSimulator) writeReadable(name string, v float64) {
	_ = s.SafeSet(name, robotick.Float64(v))
}

// Tick integrates one step of the plant model from the current wheel
// torques, matching the reference's tick(time_delta) body.
func (s *BalancingRobotSimulator) Tick(dt time.Duration) error {
	seconds := dt.Seconds()

	forceL := s.SafeGet("wheel_torque_L").FloatOr(0) / s.WheelRadius
	forceR := s.SafeGet("wheel_torque_R").FloatOr(0) / s.WheelRadius
	forceTotal := forceL + forceR

	accelRobot := forceTotal / s.Mass

	yaw := s.readable("yaw")
	accelWorldX := accelRobot * math.Cos(yaw)
	accelWorldY := accelRobot * math.Sin(yaw)

	dx := s.readable("dx") + accelWorldX*seconds
	dy := s.readable("dy") + accelWorldY*seconds
	s.writeReadable("dx", dx)
	s.writeReadable("dy", dy)

	s.writeReadable("x", s.readable("x")+dx*seconds)
	s.writeReadable("y", s.readable("y")+dy*seconds)

	yawMoment := (forceR - forceL) * s.TrackWidth / 2
	dyaw := s.readable("dyaw") + yawMoment/(s.Mass*s.TrackWidth)*seconds
	s.writeReadable("dyaw", dyaw)
	s.writeReadable("yaw", yaw+dyaw*seconds)

	legHeightL := s.SafeGet("leg_height_L").FloatOr(0)
	legHeightR := s.SafeGet("leg_height_R").FloatOr(0)
	legsHeight := (legHeightL + legHeightR) / 2
	s.writeReadable("legs_height", legsHeight)

	if s.TrackWidth != 0 {
		s.writeReadable("roll", math.Atan((legHeightL-legHeightR)/s.TrackWidth))
	} else {
		s.writeReadable("roll", 0)
	}

	pitch := s.readable("pitch")
	iTheta := s.Mass * legsHeight * legsHeight
	var thetaAccel float64
	if iTheta != 0 {
		thetaAccel = (s.Mass*s.Gravity*legsHeight*math.Sin(pitch) +
			s.Mass*legsHeight*accelRobot*math.Cos(pitch)) / iTheta
	}

	dpitch := s.readable("dpitch") + thetaAccel*seconds
	pitch += dpitch * seconds

	const maxTilt = math.Pi / 2
	switch {
	case pitch > maxTilt:
		pitch = maxTilt
		dpitch = 0
	case pitch < -maxTilt:
		pitch = -maxTilt
		dpitch = 0
	}
	s.writeReadable("dpitch", dpitch)
	s.writeReadable("pitch", pitch)

	return nil
}

// Register records BalancingRobotSimulator under its canonical registry name.
func Register(reg *robotick.Registry) {
	reg.RegisterType("BalancingRobotSimulator", func() robotick.Workload { return NewBalancingRobotSimulator() })
}

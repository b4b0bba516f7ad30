// Package controllers holds closed-loop controller workloads.
package controllers

import (
	"time"

	"github.com/robotick-go/robotick"
)

// PidController is a direct port of the Python reference's PidControl
// (original_source/robotick/robotick/workloads/core/controllers/pid_controller.py):
// two writable inputs (setpoint, measured), five readable outputs
// (error, p_term, i_term, d_term, control_output), ticking at 100Hz by
// default.
type PidController struct {
	*robotick.WorkloadBase

	Kp, Ki, Kd float64

	integral  float64
	prevError float64
}

// NewPidController constructs a PidController with the reference's default
// gains (Kp=1, Ki=0, Kd=0) and 100Hz default tick rate.
func NewPidController() *PidController {
	c := &PidController{
		WorkloadBase: robotick.NewWorkloadBase(100),
		Kp:           1.0,
	}
	c.State.DeclareWritable("setpoint", robotick.Float64(0))
	c.State.DeclareWritable("measured", robotick.Float64(0))
	c.State.DeclareReadable("error", robotick.Float64(0))
	c.State.DeclareReadable("p_term", robotick.Float64(0))
	c.State.DeclareReadable("i_term", robotick.Float64(0))
	c.State.DeclareReadable("d_term", robotick.Float64(0))
	c.State.DeclareReadable("control_output", robotick.Float64(0))
	c.SetSelf(c)
	return c
}

// ApplyConfig accepts kp/ki/kd overrides from a composer config's args. Any
// key not recognized here is reported as ErrUnknownConfig, per config.go's
// applyArgs contract (Design Notes §9).
func (c *PidController) ApplyConfig(args map[string]robotick.Value) error {
	for k, v := range args {
		switch k {
		case "kp":
			c.Kp = v.FloatOr(c.Kp)
		case "ki":
			c.Ki = v.FloatOr(c.Ki)
		case "kd":
			c.Kd = v.FloatOr(c.Kd)
		default:
			return robotick.ErrUnknownConfig
		}
	}
	return nil
}

// Tick computes the PID output from the current setpoint/measured pair,
// matching the reference's tick(time_delta) body line for line.
func (c *PidController) Tick(dt time.Duration) error {
	seconds := dt.Seconds()

	setpoint := c.SafeGet("setpoint").FloatOr(0)
	measured := c.SafeGet("measured").FloatOr(0)

	errVal := setpoint - measured
	if seconds > 0 {
		c.integral += errVal * seconds
	} else {
		c.integral += errVal
	}

	var derivative float64
	if seconds > 0 {
		derivative = (errVal - c.prevError) / seconds
	}

	pTerm := c.Kp * errVal
	iTerm := c.Ki * c.integral
	dTerm := c.Kd * derivative
	output := pTerm + iTerm + dTerm

	c.prevError = errVal

	_ = c.SafeSet("error", robotick.Float64(errVal))
	_ = c.SafeSet("p_term", robotick.Float64(pTerm))
	_ = c.SafeSet("i_term", robotick.Float64(iTerm))
	_ = c.SafeSet("d_term", robotick.Float64(dTerm))
	_ = c.SafeSet("control_output", robotick.Float64(output))
	return nil
}

// Register records PidController under its canonical registry name.
func Register(reg *robotick.Registry) {
	reg.RegisterType("PidController", func() robotick.Workload { return NewPidController() })
}

package controllers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/robotick-go/robotick"
	"github.com/robotick-go/robotick/workloads/controllers"
)

func TestPidControllerProportionalOnly(t *testing.T) {
	c := controllers.NewPidController()
	c.Kp, c.Ki, c.Kd = 2.0, 0, 0

	if err := c.SafeSet("setpoint", robotick.Float64(10)); err != nil {
		t.Fatalf("SafeSet setpoint: %v", err)
	}
	if err := c.SafeSet("measured", robotick.Float64(4)); err != nil {
		t.Fatalf("SafeSet measured: %v", err)
	}

	if err := c.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	errField := c.SafeGet("error")
	if f, _ := errField.Float(); f != 6 {
		t.Fatalf("error = %v, want 6", f)
	}
	output := c.SafeGet("control_output")
	if f, _ := output.Float(); f != 12 {
		t.Fatalf("control_output = %v, want 12 (Kp * error)", f)
	}
}

func TestPidControllerIntegralAccumulates(t *testing.T) {
	c := controllers.NewPidController()
	c.Kp, c.Ki, c.Kd = 0, 1.0, 0

	_ = c.SafeSet("setpoint", robotick.Float64(1))
	_ = c.SafeSet("measured", robotick.Float64(0))

	for i := 0; i < 3; i++ {
		if err := c.Tick(100 * time.Millisecond); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	iTerm := c.SafeGet("i_term")
	f, _ := iTerm.Float()
	if f <= 0 {
		t.Fatalf("i_term = %v, want positive accumulation", f)
	}
}

func TestPidControllerApplyConfigOverridesGains(t *testing.T) {
	c := controllers.NewPidController()
	if err := c.ApplyConfig(map[string]robotick.Value{
		"kp": robotick.Float64(3),
		"ki": robotick.Float64(0.5),
	}); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if c.Kp != 3 || c.Ki != 0.5 {
		t.Fatalf("Kp=%v Ki=%v, want 3, 0.5", c.Kp, c.Ki)
	}
}

func TestPidControllerApplyConfigRejectsUnknownKey(t *testing.T) {
	c := controllers.NewPidController()
	err := c.ApplyConfig(map[string]robotick.Value{"not_a_real_key": robotick.Float64(1)})
	if !errors.Is(err, robotick.ErrUnknownConfig) {
		t.Fatalf("err = %v, want ErrUnknownConfig", err)
	}
}

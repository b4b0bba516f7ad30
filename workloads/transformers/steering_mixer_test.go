package transformers_test

import (
	"errors"
	"testing"

	"github.com/robotick-go/robotick"
	"github.com/robotick-go/robotick/workloads/transformers"
)

func TestSteeringMixerStraightAhead(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()

	if err := m.SafeSet("input_speed", robotick.Float64(0.5)); err != nil {
		t.Fatalf("SafeSet input_speed: %v", err)
	}
	if err := m.SafeSet("input_turn_rate", robotick.Float64(0)); err != nil {
		t.Fatalf("SafeSet input_turn_rate: %v", err)
	}

	left, _ := m.SafeGet("output_left_motor").Float()
	right, _ := m.SafeGet("output_right_motor").Float()
	if left != -0.5 || right != 0.5 {
		t.Fatalf("left=%v right=%v, want -0.5/0.5 (left is negated relative to right)", left, right)
	}
}

func TestSteeringMixerClampsLeftToUnitRange(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()
	_ = m.SafeSet("input_speed", robotick.Float64(1))
	_ = m.SafeSet("input_turn_rate", robotick.Float64(1))

	left, _ := m.SafeGet("output_left_motor").Float()
	if left != -1 {
		t.Fatalf("left = %v, want -1 (pre-negation mix of 1.4 clamped to 1, then negated)", left)
	}
}

func TestSteeringMixerClampsRightToUnitRange(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()
	_ = m.SafeSet("input_speed", robotick.Float64(-1))
	_ = m.SafeSet("input_turn_rate", robotick.Float64(1))

	right, _ := m.SafeGet("output_right_motor").Float()
	if right != -1 {
		t.Fatalf("right = %v, want -1 (mix of -1.4 clamped to -1)", right)
	}
}

func TestSteeringMixerAppliesPowerScale(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()
	if err := m.ApplyConfig(map[string]robotick.Value{
		"power_scale_both": robotick.Float64(0.5),
	}); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	_ = m.SafeSet("input_speed", robotick.Float64(1))
	_ = m.SafeSet("input_turn_rate", robotick.Float64(0))

	left, _ := m.SafeGet("output_left_motor").Float()
	if left != -0.5 {
		t.Fatalf("left = %v, want -0.5 after power_scale_both", left)
	}
}

func TestSteeringMixerApplyConfigRejectsUnknownKey(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()
	err := m.ApplyConfig(map[string]robotick.Value{"not_a_real_key": robotick.Float64(1)})
	if !errors.Is(err, robotick.ErrUnknownConfig) {
		t.Fatalf("err = %v, want ErrUnknownConfig", err)
	}
}

// TestSteeringMixerMatchesSpecWorkedExample reproduces spec.md §8 scenario 4
// verbatim: max_speed_differential=0.4, balance=0.5, turn=0.25,
// power_scale=100 -> left=-60, right=40.
func TestSteeringMixerMatchesSpecWorkedExample(t *testing.T) {
	m := transformers.NewSteeringMixerTransformer()
	if err := m.ApplyConfig(map[string]robotick.Value{
		"power_scale_both": robotick.Float64(100),
	}); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	_ = m.SafeSet("input_speed", robotick.Float64(0.5))
	_ = m.SafeSet("input_turn_rate", robotick.Float64(0.25))

	left, _ := m.SafeGet("output_left_motor").Float()
	right, _ := m.SafeGet("output_right_motor").Float()
	if left != -60 || right != 40 {
		t.Fatalf("left=%v right=%v, want -60/40", left, right)
	}
}

// Package transformers holds stateless, push-triggered compute nodes.
package transformers

import "github.com/robotick-go/robotick"

// SteeringMixerTransformer ports the Python reference's
// SteeringMixerTransformer (original_source/.../transformers/steering_mixer_transformer.py)
// for its input/output shape and per-side power scales, but folds in the
// sign convention from the reference's other steering mixer,
// original_source/.../controllers/steering_mixer.py, whose tick() body does
// `self.safe_set('left_motor', -left)`: the left output is the negative of
// the clamped mix, baked into the algorithm rather than a config knob. This
// is what reproduces spec.md §8 scenario 4's worked numbers
// (max_speed_differential=0.4, balance=0.5, turn=0.25, power_scale=100 →
// left=-60, right=40).
type SteeringMixerTransformer struct {
	*robotick.TransformerBase

	MaxSpeedDifferential float64
	PowerScaleBoth       float64
	PowerScaleLeft       float64
	PowerScaleRight      float64
}

// NewSteeringMixerTransformer constructs the transformer with the
// reference's default scale factors.
func NewSteeringMixerTransformer() *SteeringMixerTransformer {
	t := &SteeringMixerTransformer{
		TransformerBase:      robotick.NewTransformerBase([]string{"input_speed", "input_turn_rate"}, []string{"output_left_motor", "output_right_motor"}),
		MaxSpeedDifferential: 0.4,
		PowerScaleBoth:       1.0,
		PowerScaleLeft:       1.0,
		PowerScaleRight:      1.0,
	}
	t.SetSelf(t)
	return t
}

// ApplyConfig accepts scale overrides from a composer config's args. Any key
// not recognized here is reported as ErrUnknownConfig, per config.go's
// applyArgs contract (Design Notes §9).
func (t *SteeringMixerTransformer) ApplyConfig(args map[string]robotick.Value) error {
	for k, v := range args {
		switch k {
		case "max_speed_differential":
			t.MaxSpeedDifferential = v.FloatOr(t.MaxSpeedDifferential)
		case "power_scale_both":
			t.PowerScaleBoth = v.FloatOr(t.PowerScaleBoth)
		case "power_scale_left":
			t.PowerScaleLeft = v.FloatOr(t.PowerScaleLeft)
		case "power_scale_right":
			t.PowerScaleRight = v.FloatOr(t.PowerScaleRight)
		default:
			return robotick.ErrUnknownConfig
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Transform mixes speed and turn rate into left/right motor power, in the
// order declared by InputNames/OutputNames at construction. The left output
// is negated relative to the right — the asymmetric sign convention ported
// from the reference controller's tick() body (see the type doc comment) —
// so driving straight ahead spins the two sides in opposing directions, as
// a differential drive's left motor is mounted facing the opposite way.
func (t *SteeringMixerTransformer) Transform(inputs []robotick.Value) []robotick.Value {
	speed := inputs[0].FloatOr(0)
	turnRate := inputs[1].FloatOr(0)

	left := speed + turnRate*t.MaxSpeedDifferential
	right := speed - turnRate*t.MaxSpeedDifferential

	left = clamp(left, -1, 1)
	right = clamp(right, -1, 1)

	left *= t.PowerScaleLeft * t.PowerScaleBoth
	right *= t.PowerScaleRight * t.PowerScaleBoth

	return []robotick.Value{robotick.Float64(-left), robotick.Float64(right)}
}

// Register records SteeringMixerTransformer under its canonical registry name.
func Register(reg *robotick.Registry) {
	reg.RegisterType("SteeringMixerTransformer", func() robotick.Workload { return NewSteeringMixerTransformer() })
}

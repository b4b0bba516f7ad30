package robotick

import "gopkg.in/yaml.v3"

// Document mirrors the single top-level config object described in
// spec.md §6: a `workloads` list, each entry naming a registry type, an
// instance name, and an `args` bag. The reference composer loads this from
// YAML (`yaml.safe_load`); this implementation parses the same shape with
// gopkg.in/yaml.v3 (pulled from the orchard9-tui-styles dependency set,
// since the teacher carries no config format of its own).
type Document struct {
	Workloads []WorkloadConfig `yaml:"workloads"`
}

// WorkloadConfig is one entry of the document.
type WorkloadConfig struct {
	Type string         `yaml:"type"`
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args"`
}

// ParseDocument decodes a YAML config document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Configurable is implemented by workloads with tuning parameters beyond
// tick_rate_hz/tick_parent_name/data_bindings (which the Composer handles
// itself). ApplyConfig receives whatever `args` keys remain after those
// three are consumed; an unrecognized key must be reported as
// ErrUnknownConfig (Design Notes §9: "Unknown keys become UnknownConfig"),
// matching spec.md §9's replacement for the Python reference's
// unconditional setattr.
type Configurable interface {
	ApplyConfig(args map[string]Value) error
}

const (
	argTickRateHz     = "tick_rate_hz"
	argTickParentName = "tick_parent_name"
	argDataBindings   = "data_bindings"
)

// splitReservedArgs pulls the three Composer-owned keys out of raw args and
// returns the rest for ApplyConfig.
func splitReservedArgs(raw map[string]any) (tickRateHz *float64, tickParent string, bindings []string, rest map[string]any) {
	rest = make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case argTickRateHz:
			switch n := v.(type) {
			case int:
				f := float64(n)
				tickRateHz = &f
			case float64:
				f := n
				tickRateHz = &f
			}
		case argTickParentName:
			if s, ok := v.(string); ok {
				tickParent = s
			}
		case argDataBindings:
			if list, ok := v.([]any); ok {
				for _, item := range list {
					if s, ok := item.(string); ok {
						bindings = append(bindings, s)
					}
				}
			}
		default:
			rest[k] = v
		}
	}
	return tickRateHz, tickParent, bindings, rest
}

// applyArgs implements spec.md §4.7 step 3 and Design Notes §9: copy
// tick_rate_hz/tick_parent_name/data_bindings onto the instance directly,
// then hand any remaining keys to the instance's ApplyConfig if it
// implements Configurable. Remaining keys with no Configurable hook are
// ErrUnknownConfig.
func applyArgs(inst Workload, raw map[string]any) error {
	base := inst.Base()
	tickRateHz, tickParent, bindings, rest := splitReservedArgs(raw)
	if tickRateHz != nil {
		base.TickRateHz = *tickRateHz
	}
	base.TickParentName = tickParent
	base.SetDataBindings(bindings)

	if len(rest) == 0 {
		return nil
	}

	values := make(map[string]Value, len(rest))
	for k, v := range rest {
		val, err := ValueFromAny(v)
		if err != nil {
			return err
		}
		values[k] = val
	}

	if cfg, ok := inst.(Configurable); ok {
		return cfg.ApplyConfig(values)
	}
	return ErrUnknownConfig
}

package robotick_test

import (
	"testing"

	"github.com/robotick-go/robotick"
)

func TestParseDocument(t *testing.T) {
	doc, err := robotick.ParseDocument([]byte(`
workloads:
  - type: stub_workload
    name: a
    args:
      tick_rate_hz: 50
      data_bindings: ["x -> b.y"]
      gain: 2.5
`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Workloads) != 1 {
		t.Fatalf("len(Workloads) = %d, want 1", len(doc.Workloads))
	}
	wc := doc.Workloads[0]
	if wc.Type != "stub_workload" || wc.Name != "a" {
		t.Fatalf("unexpected workload config: %+v", wc)
	}
	if _, ok := wc.Args["gain"]; !ok {
		t.Fatal("expected gain key in args")
	}
}

type configurableStub struct {
	*robotick.WorkloadBase
	gain float64
}

func (c *configurableStub) ApplyConfig(args map[string]robotick.Value) error {
	if v, ok := args["gain"]; ok {
		c.gain = v.FloatOr(c.gain)
		return nil
	}
	return robotick.ErrUnknownConfig
}

func TestComposerRejectsUnknownConfigKey(t *testing.T) {
	registrar := func(reg *robotick.Registry) {
		reg.RegisterType("ConfigurableStub", func() robotick.Workload {
			w := &configurableStub{WorkloadBase: robotick.NewWorkloadBase(0)}
			w.SetSelf(w)
			return w
		})
	}

	path := writeTempConfig(t, `
workloads:
  - type: configurable_stub
    name: a
    args:
      nonsense: 1
`)

	composer := robotick.NewComposer()
	if _, err := composer.Load(path, []robotick.Registrar{registrar}); err == nil {
		t.Fatal("expected ErrUnknownConfig for a key neither reserved nor consumed by ApplyConfig")
	}
}

package robotick_test

import (
	"testing"

	"github.com/robotick-go/robotick"
)

type stubWorkload struct {
	*robotick.WorkloadBase
}

func newStubWorkload() *stubWorkload {
	w := &stubWorkload{WorkloadBase: robotick.NewWorkloadBase(0)}
	w.SetSelf(w)
	return w
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"PidController":           "pid_controller",
		"BalancingRobotSimulator": "balancing_robot_simulator",
		"IO":                      "i_o",
	}
	for in, want := range cases {
		if got := robotick.SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistryRegisterAndGetType(t *testing.T) {
	reg := robotick.NewRegistry()
	reg.RegisterType("StubWorkload", func() robotick.Workload { return newStubWorkload() })

	ctor, ok := reg.GetType("stub_workload")
	if !ok {
		t.Fatal("GetType(stub_workload) not found")
	}
	if _, ok := ctor().(*stubWorkload); !ok {
		t.Fatal("constructor did not return a *stubWorkload")
	}
}

func TestRegistryFindByName(t *testing.T) {
	reg := robotick.NewRegistry()
	w := newStubWorkload()
	w.Name = "alpha"
	reg.RegisterInstance("StubWorkload", w)

	got, ok := reg.FindByName("alpha")
	if !ok || got != robotick.Workload(w) {
		t.Fatalf("FindByName(alpha) = %v, %v", got, ok)
	}
	if _, ok := reg.FindByName(""); ok {
		t.Fatal("FindByName(\"\") should never match")
	}
}

func TestRegistryInstancesOfType(t *testing.T) {
	reg := robotick.NewRegistry()
	reg.RegisterInstance("StubWorkload", newStubWorkload())
	reg.RegisterInstance("StubWorkload", newStubWorkload())

	got := reg.InstancesOfType("stub_workload")
	if len(got) != 2 {
		t.Fatalf("InstancesOfType = %d instances, want 2", len(got))
	}
}

func TestRegistryTypeNamesSorted(t *testing.T) {
	reg := robotick.NewRegistry()
	reg.RegisterType("Zeta", func() robotick.Workload { return newStubWorkload() })
	reg.RegisterType("Alpha", func() robotick.Workload { return newStubWorkload() })

	names := reg.TypeNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("TypeNames() = %v", names)
	}
}

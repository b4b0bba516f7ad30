package robotick_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robotick-go/robotick"
)

func TestMetricsObserveTickDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := robotick.NewMetrics(reg)

	m.ObserveTick("rec", "recording_workload", 5*time.Millisecond, nil)
	m.ObserveTick("rec", "recording_workload", 7*time.Millisecond, errTickFailed)
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *robotick.Metrics
	m.ObserveTick("x", "y", time.Millisecond, nil)
}

var errTickFailed = errString("tick failed")

type errString string

func (e errString) Error() string { return string(e) }

// Command robotick-demo wires a Composer with the built-in workload
// registrars and an example YAML config, starts the resulting system, and
// runs a telemetry bridge until interrupted.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robotick-go/robotick"
	"github.com/robotick-go/robotick/remotecontrol"
	"github.com/robotick-go/robotick/telemetry"
	"github.com/robotick-go/robotick/workloads/controllers"
	"github.com/robotick-go/robotick/workloads/interfaces"
	"github.com/robotick-go/robotick/workloads/simulators"
	"github.com/robotick-go/robotick/workloads/transformers"
)

func main() {
	configPath := flag.String("config", "cmd/robotick-demo/demo.yaml", "path to composer config")
	flag.Parse()

	logger := robotick.NewSlogLogger(slog.Default())
	metrics := robotick.NewMetrics(nil)

	composer := robotick.NewComposer(robotick.WithLogger(logger), robotick.WithMetrics(metrics))
	handle, err := composer.Load(*configPath, []robotick.Registrar{
		controllers.Register,
		transformers.Register,
		simulators.Register,
		interfaces.Register,
	})
	if err != nil {
		logger.Error("composer load failed", "err", err)
		os.Exit(1)
	}

	remoteLink, err := remotecontrol.NewLink(handle.Registry, logger)
	if err != nil {
		logger.Error("remote control link failed", "err", err)
		os.Exit(1)
	}
	defer remoteLink.Close()

	bridge := telemetry.NewBridge(
		handle.Registry,
		200*time.Millisecond,
		telemetry.NewTokenBucketLimiter(20, 5),
		logger,
		telemetry.NewWebSocketPublisher(true),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go bridge.Run(ctx)

	<-ctx.Done()

	_ = bridge.Close()
	if err := handle.StopAll(); err != nil {
		logger.Error("stop_all reported an error", "err", err)
		os.Exit(1)
	}
}

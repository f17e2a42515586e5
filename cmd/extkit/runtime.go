package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/bootstrap"
	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/config"
	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/observability"
	"github.com/kbukum/extkit/preference"
	"github.com/kbukum/extkit/version"
)

// runtime is a wired extkit process: configuration, contribution source,
// preference store and the host managing the configured points.
type runtime struct {
	app     *bootstrap.App[*config.Config]
	host    *host.Host
	source  *contribution.Dir
	metrics *observability.Metrics
}

// newRuntime loads the configuration and wires every component. interactive
// selects the serve flavour: startup summary and info logging. One-shot
// commands log warnings only so their output stays clean.
func newRuntime(o *rootOptions, interactive bool) (*runtime, error) {
	cfg, err := config.Load(o.loaderOptions()...)
	if err != nil {
		return nil, err
	}
	switch {
	case o.logLevel != "":
		cfg.Logging.Level = o.logLevel
	case !interactive:
		cfg.Logging.Level = "warn"
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	var appOpts []bootstrap.Option
	if !interactive {
		appOpts = append(appOpts, bootstrap.WithoutSummary())
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return nil, err
	}
	log := app.Logger

	if cfg.Telemetry.Enabled {
		if err := app.RegisterComponent(observability.NewTelemetry(tracerConfig(cfg), meterConfig(cfg))); err != nil {
			return nil, err
		}
	}
	metrics, err := observability.NewMetrics(observability.Meter(config.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	source, err := contribution.NewDir(cfg.Contributions.Dir, log.WithComponent("contribution"))
	if err != nil {
		return nil, err
	}
	store, err := preference.Open(cfg.Preferences, log.WithComponent("preference"))
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	if c, ok := store.(component.Component); ok {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	h, err := host.New(source, store, cfg.Points,
		host.WithLogger(log.WithComponent("host")),
		host.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}
	app.OnStop(func(context.Context) error {
		h.Close()
		return nil
	})

	return &runtime{app: app, host: h, source: source, metrics: metrics}, nil
}

func tracerConfig(cfg *config.Config) observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
}

func meterConfig(cfg *config.Config) observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Interval:       cfg.Telemetry.ExportInterval,
	}
}

// task runs fn inside the application lifecycle, so a redis store is
// connected first and everything is released afterwards.
func task(cmd *cobra.Command, o *rootOptions, fn func(rt *runtime, out *printer) error) error {
	rt, err := newRuntime(o, false)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout(), o.output)
	return rt.app.RunTask(cmd.Context(), func(context.Context) error {
		return fn(rt, out)
	})
}

// pointTask is a task on the point named pointID.
func pointTask(cmd *cobra.Command, o *rootOptions, pointID string, fn func(p *host.Point, out *printer) error) error {
	return task(cmd, o, func(rt *runtime, out *printer) error {
		p, err := rt.host.Point(pointID)
		if err != nil {
			return err
		}
		return fn(p, out)
	})
}

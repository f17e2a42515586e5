package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/extkit/component"
)

// Telemetry is a component owning the tracer and meter providers. Start
// installs both as the otel globals; Stop flushes and shuts them down.
type Telemetry struct {
	tracerCfg TracerConfig
	meterCfg  MeterConfig

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// NewTelemetry returns a stopped telemetry component.
func NewTelemetry(tracerCfg TracerConfig, meterCfg MeterConfig) *Telemetry {
	return &Telemetry{tracerCfg: tracerCfg, meterCfg: meterCfg}
}

func (t *Telemetry) Name() string { return "telemetry" }

func (t *Telemetry) Describe() component.Description {
	return component.Description{Type: "otlp", Details: t.tracerCfg.Endpoint}
}

func (t *Telemetry) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tp != nil {
		return nil
	}
	tp, err := InitTracer(ctx, &t.tracerCfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, &t.meterCfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	t.tp, t.mp = tp, mp
	return nil
}

func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	tp, mp := t.tp, t.mp
	t.tp, t.mp = nil, nil
	t.mu.Unlock()
	if tp == nil {
		return nil
	}
	return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
}

func (t *Telemetry) Health(context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tp == nil {
		return component.Health{Name: t.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}

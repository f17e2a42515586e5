package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// App owns the component registry and the lifecycle hooks of one extkit
// process. C is the config type, typically *config.Config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer

	onConfigure []func(ctx context.Context, app *App[C]) error
	onStart     []Hook
	onReady     []Hook
	onStop      []Hook
}

// NewApp validates cfg after applying its defaults and sets up logging
// from its logging section unless WithLogger was given.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	log := o.logger
	if log == nil {
		logger.Init(base.Logging)
		log = logger.GetGlobalLogger()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(log.WithComponent("component")),
		Logger:          log,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: defaultGracefulTimeout,
		summaryOut:      os.Stderr,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.quiet {
		app.summaryOut = nil
	} else if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}
	return app, nil
}

// RegisterComponent adds c to the registry. Components start in
// registration order and stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers fn to run once the components are up. The host is
// built here, after its preference store connected.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck returns one error per component that does not report healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		if h.Message != "" {
			errs = append(errs, fmt.Errorf("%s is %s: %s", h.Name, h.Status, h.Message))
		} else {
			errs = append(errs, fmt.Errorf("%s is %s", h.Name, h.Status))
		}
	}
	return errors.Join(errs...)
}

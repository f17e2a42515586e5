// Package bootstrap runs the lifecycle of an extkit process.
//
// An App owns the typed configuration, the logger and a component registry.
// Run starts every component, runs the configure callbacks and hooks, prints
// a startup summary and blocks until a signal arrives; RunTask does the same
// around a finite task and shuts down when it returns.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(srv)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*config.Config]) error {
//	    a.Summary.AddPoint(bootstrap.PointInfo{ID: "org.example.renderer", Mode: "exclusive"})
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap

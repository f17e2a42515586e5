package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/api"
	"github.com/kbukum/extkit/bootstrap"
	"github.com/kbukum/extkit/config"
	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/server"
	"github.com/kbukum/extkit/sse"
)

const defaultServePort = 8080

func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		addr  string
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extension points over HTTP",
		Long: `Serve exposes the configured points over HTTP: /points lists them and
their factories and menus, /exclusive and /selective read and change the
activation state and /events streams every change. With contributions.watch (or --watch) the contribution
directory is watched and the registries are reset whenever a contribution
file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(o, true)
			if err != nil {
				return err
			}
			cfg := rt.app.Cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = addr
			}
			switch {
			case cmd.Flags().Changed("port"):
				cfg.Server.Port = port
			case cfg.Server.Port == 0:
				cfg.Server.Port = defaultServePort
			}
			if err := cfg.Server.Validate(); err != nil {
				return err
			}

			if watch || cfg.Contributions.Watch {
				w := contribution.NewWatcher(rt.source.Path(), cfg.Contributions.Debounce, rt.app.Logger.WithComponent("watcher"))
				w.OnChange(rt.host.Reset)
				if err := rt.app.RegisterComponent(w); err != nil {
					return err
				}
			}

			// The hub is registered after the server so it stops first and
			// closes the open streams before the server drains.
			hub := sse.NewHub(rt.app.Logger.WithComponent("sse"))
			srv := server.New(cfg.Server, rt.app.Logger)
			handler := api.New(rt.host, rt.app.Components, rt.app.Logger, api.WithHub(hub))
			handler.Register(srv.Engine())
			rt.app.OnStop(func(context.Context) error {
				handler.Close()
				return nil
			})
			if err := rt.app.RegisterComponent(srv); err != nil {
				return err
			}
			if err := rt.app.RegisterComponent(sse.NewComponent(hub, "/events")); err != nil {
				return err
			}

			rt.app.OnConfigure(func(_ context.Context, a *bootstrap.App[*config.Config]) error {
				for _, v := range api.PointViews(rt.host) {
					p, _ := rt.host.Point(v.ID)
					a.Summary.AddPoint(bootstrap.PointInfo{
						ID:        v.ID,
						Mode:      string(v.Mode),
						Factories: len(p.Factories()),
						Active:    v.Active,
					})
				}
				return nil
			})
			return rt.app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", defaultServePort, "listen port (overrides server.port; 0 picks a free port)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload contributions when files change")
	return cmd
}

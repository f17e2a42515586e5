package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/api"
	"github.com/kbukum/extkit/host"
)

func newPointsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "points",
		Short: "List the configured extension points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return task(cmd, o, func(rt *runtime, out *printer) error {
				views := api.PointViews(rt.host)
				return out.print(views, func(w io.Writer) {
					rows := make([][]string, 0, len(views))
					for _, v := range views {
						rows = append(rows, []string{v.ID, string(v.Mode), idsText(v.Active)})
					}
					table(w, []string{"POINT", "MODE", "ACTIVE"}, rows)
				})
			})
		},
	}
}

func newFactoriesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "factories <point>",
		Aliases: []string{"ls"},
		Short:   "List the factories contributed to a point, highest priority first",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				views := api.FactoryViews(p)
				return out.print(views, func(w io.Writer) {
					rows := make([][]string, 0, len(views))
					for _, v := range views {
						active := ""
						if v.Active {
							active = "*"
						}
						rows = append(rows, []string{active, v.ID, v.Name, strconv.Itoa(v.Priority)})
					}
					table(w, []string{"", "ID", "NAME", "PRIORITY"}, rows)
				})
			})
		},
	}
}

func newMenuCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <point>",
		Short: "Show the action menu of a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				views := api.ActionViews(p.Menu())
				return out.print(views, func(w io.Writer) { writeMenu(w, views, 0) })
			})
		},
	}
}

func newRunCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <point> <action-id>...",
		Short: "Run a menu action, descending into dropdowns by id",
		Example: `  extkit run org.example.renderer satellite
  extkit run org.example.renderer Custom add`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				if err := p.RunAction(args[1:]...); err != nil {
					return err
				}
				views := api.ActionViews(p.Menu())
				return out.print(views, func(w io.Writer) {
					fmt.Fprintf(w, "%s: ran %v\n", p.ID(), args[1:])
					writeMenu(w, views, 0)
				})
			})
		},
	}
}

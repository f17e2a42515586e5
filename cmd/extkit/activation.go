package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/api"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/host"
)

func printCurrent(p *host.Point, out *printer) error {
	id := p.Exclusive.CurrentID()
	return out.print(api.CurrentView{ID: id}, func(w io.Writer) {
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s: %s\n", p.ID(), id)
	})
}

func printActive(p *host.Point, out *printer) error {
	ids := p.ActiveIDs()
	return out.print(api.ActiveView{IDs: ids}, func(w io.Writer) {
		for _, id := range ids {
			fmt.Fprintln(w, id)
		}
	})
}

func requireMode(p *host.Point, m host.Mode) error {
	if p.Mode() != m {
		return apperrors.InvalidInput("mode", "point "+p.ID()+" is "+string(p.Mode()))
	}
	return nil
}

func newCurrentCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current <point>",
		Short: "Show the current factory of an exclusive point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				if err := requireMode(p, host.ModeExclusive); err != nil {
					return err
				}
				return printCurrent(p, out)
			})
		},
	}
}

func newUseCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <point> <factory-id>",
		Short: "Make a factory current on an exclusive point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				if err := p.SetCurrent(args[1]); err != nil {
					return err
				}
				return printCurrent(p, out)
			})
		},
	}
}

func newClearCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <point>",
		Short: "Dispose the current object of an exclusive point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				if err := p.RemoveCurrent(); err != nil {
					return err
				}
				return printCurrent(p, out)
			})
		},
	}
}

func newActiveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "active <point>",
		Short: "List the active factories of a selective point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				if err := requireMode(p, host.ModeSelective); err != nil {
					return err
				}
				return printActive(p, out)
			})
		},
	}
}

func newActivateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <point> <factory-id>...",
		Short: "Activate factories on a selective point",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				for _, id := range args[1:] {
					if err := p.Activate(id); err != nil {
						return err
					}
				}
				return printActive(p, out)
			})
		},
	}
}

func newDeactivateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <point> <factory-id>...",
		Short: "Deactivate factories on a selective point",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				for _, id := range args[1:] {
					if err := p.Deactivate(id); err != nil {
						return err
					}
				}
				return printActive(p, out)
			})
		},
	}
}

func newToggleCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <point> <factory-id>",
		Short: "Flip one factory of a selective point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pointTask(cmd, o, args[0], func(p *host.Point, out *printer) error {
				active, err := p.Toggle(args[1])
				if err != nil {
					return err
				}
				state := "deactivated"
				if active {
					state = "activated"
				}
				return out.print(map[string]any{"id": args[1], "active": active}, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s %s\n", p.ID(), args[1], state)
				})
			})
		},
	}
}

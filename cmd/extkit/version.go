package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/version"
)

func newVersionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			return newPrinter(cmd.OutOrStdout(), o.output).print(info, func(w io.Writer) {
				fmt.Fprintln(w, info.String())
			})
		},
	}
}

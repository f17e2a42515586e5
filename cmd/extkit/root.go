package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/extkit/config"
	"github.com/kbukum/extkit/version"
)

// Output formats of the --output flag.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	output     string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "extkit",
		Short:         "Manage contributed extensions and their activation state",
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch o.output {
			case outputText, outputJSON, outputYAML:
				return nil
			}
			return fmt.Errorf("unknown output format %q (text, json or yaml)", o.output)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configFile, "config", "c", "", "config file (default: searched in ./, ./config and the user config dir)")
	flags.StringVar(&o.envFile, "env-file", "", ".env file to load before reading "+config.ServiceName+" environment variables")
	flags.StringVar(&o.logLevel, "log-level", "", "log level override: trace|debug|info|warn|error")
	flags.StringVarP(&o.output, "output", "o", outputText, "output format: text|json|yaml")

	cmd.AddCommand(
		newPointsCmd(o),
		newFactoriesCmd(o),
		newMenuCmd(o),
		newRunCmd(o),
		newCurrentCmd(o),
		newUseCmd(o),
		newClearCmd(o),
		newActiveCmd(o),
		newActivateCmd(o),
		newDeactivateCmd(o),
		newToggleCmd(o),
		newServeCmd(o),
		newVersionCmd(o),
	)
	return cmd
}

func (o *rootOptions) loaderOptions() []config.LoaderOption {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	return opts
}

package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/version"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig is the process part of the configuration. Config embeds it
// with mapstructure squash, so name, environment, version, debug and logging
// sit at the top level of the file.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig is promoted through embedding; bootstrap reads the
// process settings through it.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills environment and version from the build. Development
// always runs with Debug; an explicit debug elsewhere raises logging to the
// debug level.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Environment != "development" {
		c.Logging.Level = "debug"
	}
}

// Validate checks the name, the environment and the logging section.
func (c *ServiceConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("config.name is required")
	case !slices.Contains(environments, c.Environment):
		return fmt.Errorf("config.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

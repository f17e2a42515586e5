package config

import (
	"fmt"
	"time"

	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/preference"
	"github.com/kbukum/extkit/server"
	"github.com/kbukum/extkit/validation"
)

// ServiceName is the default service name; it also derives the EXTKIT_
// environment prefix.
const ServiceName = "extkit"

// Config is the full extkit configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Contributions ContributionsConfig `yaml:"contributions" mapstructure:"contributions"`
	Preferences   preference.Config   `yaml:"preferences" mapstructure:"preferences"`
	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Telemetry     TelemetryConfig     `yaml:"telemetry" mapstructure:"telemetry"`
	Points        []host.PointConfig  `yaml:"points" mapstructure:"points"`
}

// ContributionsConfig locates the contribution directory.
type ContributionsConfig struct {
	Dir      string        `yaml:"dir" mapstructure:"dir" validate:"required"`
	Watch    bool          `yaml:"watch" mapstructure:"watch"`
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce" validate:"gte=0"`
}

// TelemetryConfig enables OTLP export of traces and metrics.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" validate:"gte=0"`
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Contributions.Dir == "" {
		c.Contributions.Dir = "./contributions"
	}
	if c.Contributions.Debounce == 0 {
		c.Contributions.Debounce = contribution.DefaultDebounce
	}
	c.Preferences.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Telemetry.Enabled {
		if c.Telemetry.SampleRate == 0 {
			c.Telemetry.SampleRate = 1
		}
		if c.Telemetry.ExportInterval == 0 {
			c.Telemetry.ExportInterval = 30 * time.Second
		}
	}
	for i := range c.Points {
		c.Points[i].ApplyDefaults()
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Contributions); err != nil {
		return fmt.Errorf("contributions: %w", err)
	}
	if err := c.Preferences.Validate(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := host.Validate(c.Points); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	return nil
}

// Load reads the configuration of the extkit service, applies defaults
// and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

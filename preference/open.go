package preference

import (
	"fmt"

	"github.com/kbukum/extkit/logger"
)

// Backends supported by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config selects and configures a Store.
type Config struct {
	Backend string      `mapstructure:"backend" validate:"omitempty,oneof=memory file redis"`
	File    string      `mapstructure:"file"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Backend == BackendFile && c.File == "" {
		c.File = "preferences.yaml"
	}
	if c.Backend == BackendRedis {
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.File == "" {
			return fmt.Errorf("preferences.file is required for the file backend")
		}
	case BackendRedis:
		return c.Redis.Validate()
	default:
		return fmt.Errorf("unknown preferences backend %q", c.Backend)
	}
	return nil
}

// Open creates the Store selected by cfg.
func Open(cfg Config, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(nil), nil
	case BackendRedis:
		return NewRedis(cfg.Redis, log)
	default:
		return NewFile(cfg.File)
	}
}

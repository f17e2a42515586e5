package bootstrap

import (
	"github.com/kbukum/extkit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods,
// extkit's own config.Config included:
//
//	app, err := bootstrap.NewApp[*config.Config](cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

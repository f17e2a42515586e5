// Package config loads extkit configuration with viper and godotenv.
//
// The config file (extkit.yml, config.yml, config/..., or
// $XDG_CONFIG_HOME/extkit/config.yml) is read first; a .env file and the
// process environment override it. Variables carry the EXTKIT_ prefix and
// map onto nested keys: EXTKIT_PREFERENCES_BACKEND=redis sets
// preferences.backend.
//
//	cfg, err := config.Load(config.WithConfigFile("./extkit.yml"))
package config

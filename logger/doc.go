// Package logger is a thin zerolog wrapper that takes structured fields as
// maps built with Fields.
//
// Init configures the global logger from the logging section of the service
// config. Packages obtain their logger with Get, which tags the global
// logger with the component name unless an override was registered:
//
//	logging:
//	  level: info
//	  format: json
//	  components:
//	    exclusive: debug
//
//	log := logger.Get("exclusive")
//	log.Debug("activated", logger.Fields("point", id, "factory", fid))
package logger

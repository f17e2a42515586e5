package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// named holds loggers handed out by Get in place of the tagged global one.
var named sync.Map // string -> *Logger

// Register makes Get(name) return l.
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// Reset forgets every registered logger.
func Reset() {
	named.Clear()
}

// registerLevels registers a component logger per level override. Levels
// were checked by Config.Validate; unparsable ones are skipped.
func registerLevels(base *Logger, levels map[string]string) {
	for component, lvl := range levels {
		level, err := zerolog.ParseLevel(lvl)
		if err != nil {
			continue
		}
		l := base.WithComponent(component)
		l.logger = l.logger.Level(level)
		Register(component, l)
	}
}

package host

import (
	"fmt"

	"github.com/kbukum/extkit/validation"
)

// Mode is the activation policy of an extension point.
type Mode string

const (
	ModeExclusive Mode = "exclusive"
	ModeSelective Mode = "selective"
)

// PointConfig declares one extension point the host manages.
type PointConfig struct {
	ID   string `yaml:"id" mapstructure:"id"`
	Mode Mode   `yaml:"mode" mapstructure:"mode"`
	// Key is the preference key holding the activation state. Defaults to
	// "extkit.<id>".
	Key string `yaml:"key" mapstructure:"key"`
	// Default is the factory id an exclusive point starts with when nothing
	// is stored. Empty picks the first factory in order.
	Default string `yaml:"default" mapstructure:"default"`
}

// ApplyDefaults fills the preference key.
func (c *PointConfig) ApplyDefaults() {
	c.Key = c.key()
}

func (c *PointConfig) key() string {
	if c.Key != "" {
		return c.Key
	}
	return "extkit." + c.ID
}

var modes = []string{string(ModeExclusive), string(ModeSelective)}

// Validate checks a point list. Every entry needs a well-formed id and a
// mode; ids and preference keys must not repeat, since two points sharing a
// key would overwrite each other's state.
func Validate(points []PointConfig) error {
	v := validation.New()
	ids := make([]string, len(points))
	keys := make([]string, len(points))
	for i := range points {
		p := &points[i]
		field := fmt.Sprintf("points[%d]", i)
		v.Identifier(field+".id", p.ID).
			Required(field+".mode", string(p.Mode)).
			OneOf(field+".mode", string(p.Mode), modes)
		if p.Default != "" {
			v.Custom(validation.IsIdentifier(p.Default), field+".default", "must be a dotted identifier")
		}
		ids[i] = p.ID
		keys[i] = p.key()
	}
	v.Unique("points.id", ids).Unique("points.key", keys)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

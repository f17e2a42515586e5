package server

import (
	"context"

	"github.com/kbukum/extkit/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Server)(nil)
	_ component.Describable = (*Server)(nil)
)

// Name returns the component name used for registration.
func (s *Server) Name() string { return componentName }

// Health reports unhealthy when the server is not serving.
func (s *Server) Health(context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.http == nil:
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not running"}
	case s.serveErr != nil:
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: s.serveErr.Error()}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns the listen address for the startup log.
func (s *Server) Describe() component.Description {
	return component.Description{Type: "server", Details: s.Addr()}
}

package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a long-lived part of an extkit process: the contribution
// watcher, the redis preference store, the HTTP server.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself at startup.
type Description struct {
	// Type categorizes the component: "server", "watcher", "preferences".
	Type string
	// Details is a one-liner such as "localhost:6379 db=0" or "./contributions".
	Details string
}

// Describable is optionally implemented by components that want to be
// listed with details in the startup log.
type Describable interface {
	Describe() Description
}

// Overall folds a set of component health reports into one status.
// Any unhealthy component makes the whole unhealthy; any degraded one
// makes it degraded.
func Overall(reports []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range reports {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/extkit/component"
)

// PointInfo is the startup summary line of one extension point.
type PointInfo struct {
	ID        string
	Mode      string
	Factories int
	Active    []string
}

// Summary collects what the startup banner shows.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	points          []PointInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// AddPoint lists an extension point in the summary.
func (s *Summary) AddPoint(p PointInfo) {
	s.points = append(s.points, p)
}

// Write renders the summary: components with their descriptions and live
// health, then extension points.
func (s *Summary) Write(w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var health []component.Health
	if registry != nil {
		health = registry.HealthAll(context.Background())
	}
	fmt.Fprintf(w, "\nComponents\n")
	if len(health) == 0 {
		fmt.Fprintf(w, "   └── none\n")
	}
	for i, h := range health {
		line := fmt.Sprintf("%s %s: %s", healthIcon(h.Status), h.Name, h.Status)
		if d, ok := registry.Get(h.Name).(component.Describable); ok {
			if desc := d.Describe(); desc.Details != "" {
				line += fmt.Sprintf(" [%s %s]", desc.Type, desc.Details)
			}
		}
		if h.Message != "" {
			line += " (" + h.Message + ")"
		}
		fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(health)), line)
	}

	if len(s.points) > 0 {
		fmt.Fprintf(w, "\nExtension points\n")
		for i, p := range s.points {
			active := "-"
			if len(p.Active) > 0 {
				active = strings.Join(p.Active, ", ")
			}
			fmt.Fprintf(w, "   %s %s (%s, %d factories): %s\n",
				treePrefix(i, len(s.points)), p.ID, p.Mode, p.Factories, active)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}

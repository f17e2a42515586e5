package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/extkit/component"
)

// Component runs a Hub under the component registry.
type Component struct {
	hub  *Hub
	path string

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps hub; path is only reported by Describe.
func NewComponent(hub *Hub, path string) *Component {
	return &Component{hub: hub, path: path}
}

// Hub returns the wrapped hub.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

// Start launches the hub loop. A hub cannot be restarted once stopped.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	c.running = true
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop stops the hub and waits for its loop to return.
func (c *Component) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hub.Stop()
	c.wg.Wait()
	c.running = false
	return nil
}

func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{Type: "sse", Details: c.path}
}

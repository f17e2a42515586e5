package sse

// Event types written by this package. Domain event types (the kinds of
// host.Change) are defined by the publisher.
const (
	// EventTypeConnected is sent once when a client connects.
	EventTypeConnected = "connected"
	// EventTypeMessage is the default type of an Event without one.
	EventTypeMessage = "message"
)

// Event is one server-sent event.
type Event struct {
	Type string
	Data []byte
}

// Broadcaster sends events to the clients whose id matches a glob pattern.
type Broadcaster interface {
	BroadcastToPattern(pattern string, ev Event)
}

// Package sse streams server-sent events to HTTP clients.
//
// A Hub keeps the connected clients and routes each broadcast to the ones
// whose id matches a glob pattern. ServeSSE is the handler side of one
// connection; Component runs the hub loop under the component registry.
//
//	hub := sse.NewHub(log)
//	app.RegisterComponent(sse.NewComponent(hub, "/events"))
//	hub.BroadcastToPattern("editor.themes:*", sse.Event{Type: "current", Data: body})
package sse

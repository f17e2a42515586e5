// Package server runs the extkit HTTP API: a gin engine behind the
// standard middleware stack, served with h2c so HTTP/2 clients work
// without TLS.
//
// *Server is a component.Component. Start returns once the port is bound;
// with port 0 the kernel picks one and Addr reports it.
//
// Middleware (server/middleware), outermost first:
//
//   - Recovery: panics become a 500 with the standard error body
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: origin allow-list and preflight handling
//   - BodySizeLimit: request body cap
//   - RequestLogger: one log line per request, health probes excluded
package server

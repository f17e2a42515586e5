// Package api exposes a host.Host over HTTP so a remote rendering layer
// can list extension points, switch exclusive points and toggle selective
// ones.
//
//	GET    /points
//	GET    /points/:point/factories
//	GET    /points/:point/collections
//	GET    /points/:point/menu
//	POST   /points/:point/menu          {"path": ["collection:Custom", "add-new"]}
//	GET    /exclusive/:point
//	PUT    /exclusive/:point            {"id": "osm"}
//	DELETE /exclusive/:point
//	GET    /selective/:point
//	PUT    /selective/:point/:id
//	DELETE /selective/:point/:id
//	GET    /health
//	GET    /version
//	GET    /events                      (with WithHub)
//	GET    /points/:point/events        (with WithHub)
//
// The event streams send a "connected" event carrying the current state,
// then one event per host.Change, typed by its kind. /events receives the
// changes of every point.
//
// Errors use the errors.ErrorResponse body: 404 for unknown points and
// factories, 400 for malformed requests or a mode mismatch, 422 when a
// factory fails to create its object.
package api

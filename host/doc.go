// Package host wires configured extension points into working controllers.
//
// For every PointConfig a Host builds an extension.Registry of
// contribution.Instance factories over a shared source and a persistent
// exclusive or selective controller over a shared preference store. The
// HTTP API and the CLI both operate on a Host.
//
//	h, err := host.New(dir, store, []host.PointConfig{
//		{ID: "org.example.renderer", Mode: host.ModeExclusive},
//		{ID: "org.example.layers", Mode: host.ModeSelective},
//	})
//	p, _ := h.Point("org.example.renderer")
//	p.Exclusive.SetCurrentID("osm")
package host

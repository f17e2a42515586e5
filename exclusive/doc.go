// Package exclusive keeps exactly one instance of an extension point
// active and swaps it on demand.
//
//	themes := exclusive.NewPersistent(registry, exclusive.Persistence[Theme]{
//		Store: store,
//		Key:   "editor.theme",
//	})
//	themes.AddListener(func(t Theme, def extension.Factory[Theme]) { apply(t) })
//	themes.SetCurrentID("dark")
//
// Listeners observe a new instance only after it was created successfully,
// and the previous instance is disposed after every listener ran. A failed
// switch leaves the previous instance current.
package exclusive

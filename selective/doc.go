// Package selective keeps any subset of an extension point's factories
// active at the same time, each toggled independently.
//
//	plugins := selective.NewPersistent[Plugin](registry, store, "editor.plugins")
//	plugins.ActivateID("spellcheck")
//	for _, p := range plugins.ActiveObjects() {
//		p.Run()
//	}
//
// Activation is idempotent. Deactivation notifies listeners before the
// instance is disposed.
package selective

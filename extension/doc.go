// Package extension discovers factories contributed to named extension
// points and defines the types shared by the activation controllers.
//
// A Source yields Entries for a point. A Registry turns each entry into at
// most one Factory and at most one Collection using caller-supplied
// builders, filters and sorts the result, and caches factories by id:
//
//	reg := extension.NewRegistry[Theme]("editor.themes", source, buildTheme)
//	for _, f := range reg.Factories(nil) {
//		fmt.Println(f.ID(), f.DisplayName())
//	}
//
// Factories are ordered by priority, then display name, then id. Two
// definitions with the same id are the same definition.
//
// A failure while building one entry is logged and that entry is skipped;
// enumeration of the remaining entries continues.
package extension

// Package contribution supplies extension entries and turns them into
// factories.
//
// Static holds entries in memory. Dir reads a directory of YAML files in
// name order:
//
//	contributor: org.example.maps
//	extensions:
//	  - point: org.example.renderer
//	    elements:
//	      - name: factory
//	        attributes: {id: osm, name: OpenStreetMap, class: attributes, icon: icons/osm.png}
//
// Builder maps an entry's `class` attribute to a Constructor, so no code is
// looked up by name at runtime. `collection` elements become mutable
// Collections whose AddNew members get uuid ids. Watcher reruns callbacks,
// typically Dir.Invalidate and Registry.Reset, when the directory changes.
package contribution

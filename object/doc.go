// Package object is the managed side of the bridge: a small reference
// counted object model that scripts see.
//
// Every object embeds Base and starts life with one reference owned by its
// creator. Containers (List, Dict, Module) take a reference on every value
// they store and drop it when the value is replaced or the container is
// cleared. When the count reaches zero the object's dealloc hook runs once.
//
// # Borrowed and owned references
//
// Container getters (List.At, Dict.Get) return borrowed references: the
// caller must Retain a value it wants to keep beyond the container's
// lifetime. Constructors and GetAttr return owned references that the caller
// must Release, whether the attribute was computed or already stored.
//
// # Cycles
//
// Reference counting cannot reclaim cycles, e.g. a module whose namespace
// holds the script instance that holds the module. Objects that can take part
// in a cycle implement Traverser (report the references they hold) and
// Clearer (drop them without being destroyed). The Collector uses both to
// find groups that are only reachable from each other and breaks them:
//
//	gc := object.NewCollector()
//	gc.TrackAll(root)
//	object.Release(root)
//	n := gc.Collect() // number of objects whose references were cleared
//
// Objects are not safe for concurrent use.
package object

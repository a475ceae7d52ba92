// Package script holds the managed state of one loaded script unit.
//
// An Instance owns the script's argument list, a shared reference to the
// module the script runs in, a map of modules it imported and every command
// it bound. Bindings are forwarded to a Registrar and kept in step with it:
// each entry in the instance corresponds to exactly one live registration.
//
//	inst, err := script.New(reg, module, []string{"--verbose", "file.txt"})
//	err = inst.CommandBind("hello", handler, "")
//	...
//	inst.UnbindAll()    // unregisters in binding order
//	inst.ClearImports() // optional, breaks import cycles early
//	inst.DecRef()
//
// The module namespace usually holds a reference back to the instance, so
// the pair forms a cycle. Instance implements object.Traverser and
// object.Clearer so an object.Collector can reclaim it after unload.
package script

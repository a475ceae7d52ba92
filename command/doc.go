// Package command is the command subsystem scripts bind into.
//
// A registration pairs a category and a command name with a callable and is
// identified by the Token returned from Register. Only the holder of a token
// can remove the registration, so two scripts binding the same name never
// disturb each other:
//
//	reg := command.NewRegistry()
//	tok, err := reg.Register("Python script", "hello", handler)
//	...
//	reg.Run("hello", "world") // calls every handler bound to "hello"
//	reg.Unregister(tok)
//
// Several registrations may share a name; Run calls them in registration
// order. A handler error does not stop the remaining handlers and never
// removes the registration: it is logged and returned to the caller.
package command

// Package irc is the native side of the bridge: an in-process table of DCC
// connection and server records.
//
// Records are owned by the Core and have no reference count. Scripts never
// hold a record directly; they hold proxies that refer to a record by Handle.
// Handles are table slots and are reused once a record is destroyed, so a
// proxy that kept a stale Handle would silently read an unrelated record.
// Every destruction is therefore announced on the signal bus before the slot
// is freed:
//
//	core := irc.NewCore(bus)
//	srv := core.AddServer(irc.ServerRecord{Tag: "libera", Nick: "me"})
//	h, err := core.AddDCC(irc.DCCRecord{Type: irc.DCCChat, Server: srv})
//
//	core.DestroyDCC(h) // emits signal.DCCDestroyed with payload h
//
// Handle 0 (InvalidHandle) is reserved and never names a record.
//
// The Core is not safe for concurrent use. Like the rest of the bridge it is
// driven from a single goroutine, and signal delivery happens synchronously
// inside DestroyDCC, DisconnectServer and Close.
package irc

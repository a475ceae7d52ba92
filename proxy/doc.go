// Package proxy exposes native IRC records to scripts as managed objects.
//
// A proxy holds a Handle to a record it does not own. The record can be
// destroyed at any time by the native side while scripts still hold the
// proxy, so every proxy subscribes to its record's destruction signal when it
// is created and treats "record already gone" as the normal case:
//
//	d, err := proxy.NewDCC(core, h, "DCC", proxy.VariantDCC)
//	addr, ok := d.Addr() // ok is false once the record is gone
//
// # Invalidation
//
// The signal bus is broadcast, so the destruction handler compares the
// destroyed handle with its own before touching anything. On a match the
// proxy scrubs its handle to irc.InvalidHandle and removes its subscription,
// so it sees at most one matching notification. Teardown only asks the native
// side to destroy the record; the proxy is invalidated by the resulting
// notification, the same path taken when the record is destroyed externally
// or at shutdown.
//
// # Companions
//
// A DCC proxy owns proxies for its related records (the server the request
// came through and the DCC CHAT it was negotiated over). They are built
// before the DCC proxy subscribes and released when it is deallocated.
//
// # Attribute access
//
// Typed accessors return (value, ok); ok is false both when the proxy is
// invalid and when an optional native field is unset. GetAttr follows the
// script convention instead: an unset field is None, an invalid proxy has no
// attributes at all. Attr distinguishes the cases with ErrInvalidHandle.
// Both return new references, companions included.
package proxy

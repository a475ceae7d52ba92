// Package signal implements the named notification bus that native records
// use to announce lifecycle events.
//
// Delivery is broadcast: every listener subscribed to a name receives every
// emission of that name, whatever record raised it. Listeners carry their own
// context (the listener value itself), so a listener that only cares about one
// record must compare the payload against the record it tracks:
//
//	func (p *proxy) OnSignal(name string, payload any) {
//	    if payload != p.handle {
//	        return
//	    }
//	    ...
//	}
//
// Emission is synchronous. A listener may unsubscribe itself, or any other
// listener, from inside OnSignal; a listener removed during an emission is
// not called for the remainder of that emission.
package signal

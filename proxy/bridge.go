package proxy

import (
	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/signal"
)

// Proxy is the common surface of every bridged object.
type Proxy interface {
	object.Object
	object.AttrGetter
	Valid() bool
	Handle() irc.Handle
	Name() string
}

// Bridge links a proxy to the native record it mirrors and keeps the link
// in step with the record's lifetime.
type Bridge struct {
	bus        *signal.Bus
	event      string
	name       string
	handle     irc.Handle
	subscribed bool
}

// attach starts tracking h and subscribes to event. The Bridge itself is
// the subscription context.
func (b *Bridge) attach(bus *signal.Bus, event string, h irc.Handle, name string) {
	b.bus = bus
	b.event = event
	b.handle = h
	b.name = name
	b.subscribed = true
	bus.Subscribe(event, b)
}

// OnSignal handles the destruction notification. The bus delivers every
// emission of the event to every subscriber, so the payload must be matched
// against this proxy's own handle before any state changes.
func (b *Bridge) OnSignal(name string, payload any) {
	if name != b.event {
		return
	}
	h, ok := payload.(irc.Handle)
	if !ok || h == irc.InvalidHandle || h != b.handle {
		return
	}

	b.handle = irc.InvalidHandle
	b.detach()
	Logger().Debug("proxy invalidated",
		zap.String("proxy", b.name),
		zap.Uint32("handle", uint32(h)))
}

// detach removes the subscription if it is still installed.
func (b *Bridge) detach() {
	if !b.subscribed {
		return
	}
	b.subscribed = false
	b.bus.Unsubscribe(b.event, b)
}

// release is the dealloc path: no notification may reach a freed proxy and
// no stale handle may survive it.
func (b *Bridge) release() {
	b.detach()
	b.handle = irc.InvalidHandle
}

// Valid reports whether the native record still exists.
func (b *Bridge) Valid() bool {
	return b.handle != irc.InvalidHandle
}

// Handle returns the tracked handle, or irc.InvalidHandle once invalidated.
func (b *Bridge) Handle() irc.Handle {
	return b.handle
}

// Name returns the display name given at creation.
func (b *Bridge) Name() string {
	return b.name
}

// Subscribed reports whether the destruction subscription is installed.
func (b *Bridge) Subscribed() bool {
	return b.subscribed
}

// Check returns ErrInvalidHandle once the record is gone.
func (b *Bridge) Check() error {
	if !b.Valid() {
		return errors.InvalidHandle(errors.PhaseProxy, b.name)
	}
	return nil
}

// attrFunc reads one attribute of a proxy of type P.
type attrFunc[P any] func(P) object.Object

// lookupAttr resolves name against table for a valid proxy.
func lookupAttr[P any](p P, valid bool, table map[string]attrFunc[P], name string) (object.Object, bool) {
	if !valid {
		return nil, false
	}
	get, ok := table[name]
	if !ok {
		return nil, false
	}
	return get(p), true
}

func strOrNone(s string, ok bool) object.Object {
	if !ok {
		return object.None
	}
	return object.NewStr(s)
}

func intOrNone(v int64, ok bool) object.Object {
	if !ok {
		return object.None
	}
	return object.NewInt(v)
}

func optString(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

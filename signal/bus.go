package signal

import (
	"sync"

	"go.uber.org/zap"
)

// Well-known signal names emitted by the native subsystem.
const (
	DCCCreated         = "dcc created"
	DCCDestroyed       = "dcc destroyed"
	ServerConnected    = "server connected"
	ServerDisconnected = "server disconnected"
)

// Listener receives emissions for the names it is subscribed to.
// The listener value is both the callback and its context: Unsubscribe
// removes the subscription that was added with the same (name, listener) pair.
type Listener interface {
	OnSignal(name string, payload any)
}

// ListenerFunc adapts a function to a Listener. Function values are not
// comparable, so a ListenerFunc must be subscribed through a pointer
// (&fn) if it is ever going to be unsubscribed.
type ListenerFunc func(name string, payload any)

// OnSignal calls f(name, payload).
func (f *ListenerFunc) OnSignal(name string, payload any) {
	(*f)(name, payload)
}

// Bus is a name-keyed broadcast channel.
// The lock only guards the subscription table; it is never held while a
// listener runs, so listeners are free to subscribe or unsubscribe.
type Bus struct {
	subs map[string][]Listener
	mu   sync.RWMutex
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]Listener),
	}
}

// Subscribe appends l to the listeners of name. Listeners are called in
// subscription order.
func (b *Bus) Subscribe(name string, l Listener) {
	b.mu.Lock()
	b.subs[name] = append(b.subs[name], l)
	n := len(b.subs[name])
	b.mu.Unlock()

	Logger().Debug("signal subscribed",
		zap.String("signal", name),
		zap.Int("listeners", n))
}

// Unsubscribe removes one subscription of l to name.
// It returns false if l was not subscribed.
func (b *Bus) Unsubscribe(name string, l Listener) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[name]
	for i, s := range list {
		if s == l {
			b.subs[name] = append(list[:i:i], list[i+1:]...)
			if len(b.subs[name]) == 0 {
				delete(b.subs, name)
			}
			Logger().Debug("signal unsubscribed",
				zap.String("signal", name),
				zap.Int("listeners", len(b.subs[name])))
			return true
		}
	}
	return false
}

// Subscribed reports whether l currently listens to name.
func (b *Bus) Subscribed(name string, l Listener) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.indexOf(name, l) >= 0
}

// Count returns the number of subscriptions for name.
func (b *Bus) Count(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

// Emit delivers payload to every listener of name, synchronously and in
// subscription order. It returns the number of listeners called.
func (b *Bus) Emit(name string, payload any) int {
	b.mu.RLock()
	snapshot := make([]Listener, len(b.subs[name]))
	copy(snapshot, b.subs[name])
	b.mu.RUnlock()

	called := 0
	for _, l := range snapshot {
		// Skip listeners removed by an earlier listener in this emission.
		if !b.Subscribed(name, l) {
			continue
		}
		l.OnSignal(name, payload)
		called++
	}
	return called
}

func (b *Bus) indexOf(name string, l Listener) int {
	for i, s := range b.subs[name] {
		if s == l {
			return i
		}
	}
	return -1
}

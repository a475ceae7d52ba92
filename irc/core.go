package irc

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/signal"
)

// Core owns every native record and announces their lifecycle on a bus.
type Core struct {
	bus        *signal.Bus
	table      *table
	clock      func() time.Time
	destroying map[Handle]bool
}

// Option configures a Core.
type Option func(*Core)

// WithClock overrides the time source used to stamp new records.
func WithClock(clock func() time.Time) Option {
	return func(c *Core) {
		c.clock = clock
	}
}

// NewCore creates an empty core that emits on bus.
func NewCore(bus *signal.Bus, opts ...Option) *Core {
	c := &Core{
		bus:        bus,
		table:      newTable(),
		clock:      time.Now,
		destroying: make(map[Handle]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bus returns the bus lifecycle signals are emitted on.
func (c *Core) Bus() *signal.Bus {
	return c.bus
}

// AddServer stores a server record and emits signal.ServerConnected.
func (c *Core) AddServer(rec ServerRecord) Handle {
	r := rec
	h := c.table.insert(KindServer, &r)
	Logger().Debug("server added", zap.Uint32("handle", uint32(h)), zap.String("tag", r.Tag))
	c.bus.Emit(signal.ServerConnected, h)
	return h
}

// Server returns the server record for h.
func (c *Core) Server(h Handle) (*ServerRecord, bool) {
	v, ok := c.table.get(h, KindServer)
	if !ok {
		return nil, false
	}
	return v.(*ServerRecord), true
}

// AddDCC stores a DCC record and emits signal.DCCCreated.
// A zero Created is stamped with the core's clock. A non-zero Server must
// name a live server and a non-zero Chat a live DCC.
func (c *Core) AddDCC(rec DCCRecord) (Handle, error) {
	if rec.Server != InvalidHandle {
		if _, ok := c.Server(rec.Server); !ok {
			return InvalidHandle, errors.NotFound(errors.PhaseNative, "server", fmt.Sprint(uint32(rec.Server)))
		}
	}
	if rec.Chat != InvalidHandle {
		if _, ok := c.DCC(rec.Chat); !ok {
			return InvalidHandle, errors.NotFound(errors.PhaseNative, "chat", fmt.Sprint(uint32(rec.Chat)))
		}
	}

	r := rec
	if r.Created == 0 {
		r.Created = c.clock().Unix()
	}
	if r.OrigType == DCCUnknown {
		r.OrigType = origType(r.Type)
	}
	h := c.table.insert(KindDCC, &r)
	Logger().Debug("dcc added", zap.Uint32("handle", uint32(h)), zap.Stringer("type", r.Type))
	c.bus.Emit(signal.DCCCreated, h)
	return h, nil
}

// DCC returns the DCC record for h.
func (c *Core) DCC(h Handle) (*DCCRecord, bool) {
	v, ok := c.table.get(h, KindDCC)
	if !ok {
		return nil, false
	}
	return v.(*DCCRecord), true
}

// Transfer records n more bytes moved over a DCC, starting the transfer
// clock on the first call.
func (c *Core) Transfer(h Handle, n uint64) bool {
	rec, ok := c.DCC(h)
	if !ok {
		return false
	}
	if rec.StartTime == 0 {
		rec.StartTime = c.clock().Unix()
	}
	rec.Transfd += n
	return true
}

// DestroyDCC tears a DCC down. signal.DCCDestroyed is emitted with h while
// the record is still readable; the slot is freed afterwards and records
// that were negotiated over it lose their chat reference.
// Destroying a DCC from inside its own destroy notification is a no-op.
func (c *Core) DestroyDCC(h Handle) error {
	if _, ok := c.DCC(h); !ok {
		return errors.NotFound(errors.PhaseNative, "dcc", fmt.Sprint(uint32(h)))
	}
	if c.destroying[h] {
		return nil
	}

	c.destroying[h] = true
	n := c.bus.Emit(signal.DCCDestroyed, h)
	delete(c.destroying, h)

	c.table.each(KindDCC, func(_ Handle, v any) bool {
		d := v.(*DCCRecord)
		if d.Chat == h {
			d.Chat = InvalidHandle
		}
		return true
	})

	c.table.remove(h)
	Logger().Debug("dcc destroyed", zap.Uint32("handle", uint32(h)), zap.Int("notified", n))
	return nil
}

// DisconnectServer tears a server down. DCC records that came through it
// lose their server reference but keep their server tag.
func (c *Core) DisconnectServer(h Handle) error {
	rec, ok := c.Server(h)
	if !ok {
		return errors.NotFound(errors.PhaseNative, "server", fmt.Sprint(uint32(h)))
	}
	if c.destroying[h] {
		return nil
	}

	rec.Connected = false
	c.destroying[h] = true
	n := c.bus.Emit(signal.ServerDisconnected, h)
	delete(c.destroying, h)

	c.table.each(KindDCC, func(_ Handle, v any) bool {
		d := v.(*DCCRecord)
		if d.Server == h {
			d.Server = InvalidHandle
		}
		return true
	})

	c.table.remove(h)
	Logger().Debug("server disconnected", zap.Uint32("handle", uint32(h)), zap.Int("notified", n))
	return nil
}

// DCCs returns the handles of all live DCC records in table order.
func (c *Core) DCCs() []Handle {
	return c.handles(KindDCC)
}

// Servers returns the handles of all live server records in table order.
func (c *Core) Servers() []Handle {
	return c.handles(KindServer)
}

// Len returns the number of live records of kind.
func (c *Core) Len(kind Kind) int {
	return c.table.count(kind)
}

// Close destroys every DCC and then disconnects every server, emitting the
// usual notifications for each.
func (c *Core) Close() error {
	var errs []error
	for _, h := range c.DCCs() {
		if _, ok := c.DCC(h); !ok {
			continue
		}
		if err := c.DestroyDCC(h); err != nil {
			errs = append(errs, err)
		}
	}
	for _, h := range c.Servers() {
		if _, ok := c.Server(h); !ok {
			continue
		}
		if err := c.DisconnectServer(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Core) handles(kind Kind) []Handle {
	var out []Handle
	c.table.each(kind, func(h Handle, _ any) bool {
		out = append(out, h)
		return true
	})
	return out
}

// origType mirrors the peer's view: what we GET, they SEND.
func origType(t DCCType) DCCType {
	switch t {
	case DCCGet:
		return DCCSend
	case DCCSend:
		return DCCGet
	default:
		return t
	}
}

package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/proxy"
	"github.com/wippyai/scriptbridge/signal"
)

// Factory turns native handles into proxies.
type Factory struct {
	core *irc.Core
}

// NewFactory returns a factory for records in core.
func NewFactory(core *irc.Core) *Factory {
	return &Factory{core: core}
}

// DCC creates a proxy for DCC record h, choosing the variant from the
// record's type. The caller owns the returned reference.
func (f *Factory) DCC(h irc.Handle) (*proxy.DCC, error) {
	rec, ok := f.core.DCC(h)
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseHost, "DCC")
	}
	v := proxy.VariantFor(rec.Type)
	return proxy.NewDCC(f.core, h, v.DisplayName(), v)
}

// Server creates a proxy for server record h.
func (f *Factory) Server(h irc.Handle) (*proxy.Server, error) {
	return proxy.NewServer(f.core, h)
}

// DCCs creates proxies for every live DCC record. Records whose proxy
// cannot be built are skipped.
func (f *Factory) DCCs() []*proxy.DCC {
	var out []*proxy.DCC
	for _, h := range f.core.DCCs() {
		d, err := f.DCC(h)
		if err != nil {
			Logger().Warn("skipping dcc", zap.Uint32("handle", uint32(h)), zap.Error(err))
			continue
		}
		out = append(out, d)
	}
	return out
}

// Watch calls fn with a new proxy for every DCC created from now on.
// fn owns the proxy. The returned function stops watching.
func (f *Factory) Watch(fn func(*proxy.DCC)) (stop func()) {
	l := signal.ListenerFunc(func(_ string, payload any) {
		h, ok := payload.(irc.Handle)
		if !ok {
			return
		}
		d, err := f.DCC(h)
		if err != nil {
			Logger().Warn("dcc proxy creation failed", zap.Uint32("handle", uint32(h)), zap.Error(err))
			return
		}
		fn(d)
	})
	bus := f.core.Bus()
	bus.Subscribe(signal.DCCCreated, &l)
	return func() {
		bus.Unsubscribe(signal.DCCCreated, &l)
	}
}

package proxy

import (
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/signal"
)

// ServerName is the display name of server proxies.
const ServerName = "Server"

// Server mirrors an irc.ServerRecord until the server disconnects.
type Server struct {
	object.Base
	Bridge
	core *irc.Core
}

// NewServer creates a proxy for server record h.
func NewServer(core *irc.Core, h irc.Handle) (*Server, error) {
	if _, ok := core.Server(h); !ok {
		return nil, errors.InvalidHandle(errors.PhaseProxy, ServerName)
	}

	s := &Server{core: core}
	s.Init(s.release)
	s.attach(core.Bus(), signal.ServerDisconnected, h, ServerName)
	return s, nil
}

func (s *Server) TypeName() string { return s.Name() }

func (s *Server) record() (*irc.ServerRecord, bool) {
	if !s.Valid() {
		return nil, false
	}
	return s.core.Server(s.Handle())
}

// Tag is the server's chat network tag.
func (s *Server) Tag() (string, bool) {
	rec, ok := s.record()
	if !ok {
		return "", false
	}
	return rec.Tag, true
}

// Nick is our current nick on the server.
func (s *Server) Nick() (string, bool) {
	rec, ok := s.record()
	if !ok {
		return "", false
	}
	return rec.Nick, true
}

// Address is the server's host name.
func (s *Server) Address() (string, bool) {
	rec, ok := s.record()
	if !ok {
		return "", false
	}
	return rec.Address, true
}

// Port is the server's port.
func (s *Server) Port() (int, bool) {
	rec, ok := s.record()
	if !ok {
		return 0, false
	}
	return rec.Port, true
}

// Connected reports the server's connection state.
func (s *Server) Connected() (bool, bool) {
	rec, ok := s.record()
	if !ok {
		return false, false
	}
	return rec.Connected, true
}

var serverAttrs = map[string]attrFunc[*Server]{
	"tag":     func(s *Server) object.Object { return strOrNone(s.Tag()) },
	"nick":    func(s *Server) object.Object { return strOrNone(s.Nick()) },
	"address": func(s *Server) object.Object { return strOrNone(s.Address()) },
	"port": func(s *Server) object.Object {
		p, ok := s.Port()
		return intOrNone(int64(p), ok)
	},
	"connected": func(s *Server) object.Object {
		c, _ := s.Connected()
		return object.BoolOf(c)
	},
}

// GetAttr implements object.AttrGetter; the caller owns the result.
func (s *Server) GetAttr(name string) (object.Object, bool) {
	return lookupAttr(s, s.Valid(), serverAttrs, name)
}

package proxy

import (
	"testing"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/signal"
)

func TestServer_Lifecycle(t *testing.T) {
	core := newCore()
	h := core.AddServer(irc.ServerRecord{Tag: "libera", Nick: "me", Address: "irc.libera.chat", Port: 6697, Connected: true})

	s, err := NewServer(core, h)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.DecRef()

	if s.TypeName() != ServerName {
		t.Fatalf("TypeName = %q", s.TypeName())
	}
	v, ok := s.GetAttr("port")
	if !ok || v.(*object.Int).Value != 6697 {
		t.Fatalf("port = %v, %v", v, ok)
	}
	v.DecRef()
	v, _ = s.GetAttr("connected")
	if v != object.True {
		t.Fatal("connected should be True")
	}
	v.DecRef()

	if err := core.DisconnectServer(h); err != nil {
		t.Fatal(err)
	}
	if s.Valid() || s.Subscribed() {
		t.Fatal("server proxy should be invalidated and unsubscribed")
	}
	if _, ok := s.GetAttr("tag"); ok {
		t.Fatal("invalid proxy should expose no attributes")
	}
	if err := s.Check(); !errors.Is(err, errors.ErrInvalidHandle) {
		t.Fatalf("Check = %v", err)
	}
}

func TestServer_RejectsNonServerHandle(t *testing.T) {
	core := newCore()
	dcc := mustAddDCC(t, core, irc.DCCRecord{Type: irc.DCCChat})

	if _, err := NewServer(core, dcc); !errors.Is(err, errors.ErrInvalidHandle) {
		t.Fatalf("err = %v, want invalid handle", err)
	}
	if core.Bus().Count(signal.ServerDisconnected) != 0 {
		t.Fatal("failed construction must not subscribe")
	}
}

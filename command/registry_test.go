package command

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

func recordingFunc(name string, log *[]string) *object.Func {
	return object.NewFunc(name, func(args ...object.Object) (object.Object, error) {
		entry := name
		if len(args) > 0 {
			entry += ":" + args[0].(*object.Str).Value
		}
		*log = append(*log, entry)
		return nil, nil
	})
}

func TestRegistry_RegisterRunUnregister(t *testing.T) {
	reg := NewRegistry()
	var calls []string

	tok, err := reg.Register("", "hello", recordingFunc("h1", &calls))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tok == 0 {
		t.Fatal("expected non-zero token")
	}

	got := reg.Lookup("hello")
	if len(got) != 1 || got[0].Category != DefaultCategory {
		t.Fatalf("Lookup = %+v, want default category", got)
	}

	if err := reg.Run("hello", object.NewStr("world")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(calls) != 1 || calls[0] != "h1:world" {
		t.Fatalf("calls = %v", calls)
	}

	if !reg.Unregister(tok) {
		t.Fatal("Unregister should succeed")
	}
	if reg.Unregister(tok) {
		t.Fatal("second Unregister should report nothing removed")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d, want 0", reg.Len())
	}

	err = reg.Run("hello")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("Run after unregister err = %v, want not found", err)
	}
}

func TestRegistry_DuplicateNamesIndependent(t *testing.T) {
	reg := NewRegistry(WithDefaultCategory("misc"))
	var calls []string

	first, _ := reg.Register("a", "dup", recordingFunc("first", &calls))
	second, _ := reg.Register("b", "dup", recordingFunc("second", &calls))

	if err := reg.Run("dup"); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v, want registration order", calls)
	}

	reg.Unregister(first)
	calls = nil
	reg.Run("dup")
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("calls = %v, want only the surviving binding", calls)
	}
	if !reg.Registered(second) {
		t.Fatal("removing one binding must not touch the other")
	}
}

func TestRegistry_HandlerErrorKeepsRegistration(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	reg := NewRegistry()
	boom := stderrors.New("boom")
	var calls []string

	reg.Register("", "cmd", object.NewFunc("bad", func(args ...object.Object) (object.Object, error) {
		return nil, boom
	}))
	reg.Register("", "cmd", recordingFunc("good", &calls))

	err := reg.Run("cmd")
	if !stderrors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(calls) != 1 {
		t.Fatal("later handlers must still run after a failure")
	}
	if len(reg.Lookup("cmd")) != 2 {
		t.Fatal("a failing handler must stay registered")
	}
	if n := logs.FilterMessage("command handler failed").Len(); n != 1 {
		t.Fatalf("warn entries = %d, want 1", n)
	}
}

func TestRegistry_Validation(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Register("", "", object.NewFunc("f", nil)); !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("empty name err = %v", err)
	}
	if _, err := reg.Register("", "x", nil); !errors.Is(err, errors.ErrNotCallable) {
		t.Fatalf("nil handler err = %v", err)
	}
	if reg.Len() != 0 {
		t.Fatal("failed registrations must not be stored")
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	f := object.NewFunc("f", func(args ...object.Object) (object.Object, error) { return nil, nil })
	reg.Register("", "zeta", f)
	reg.Register("", "alpha", f)
	reg.Register("", "zeta", f)

	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("Names = %v", names)
	}
}

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestVar(t *testing.T) {
	var v Var
	if v.Get() == nil {
		t.Fatal("zero Var should return a no-op logger")
	}

	core, logs := observer.New(zap.DebugLevel)
	v.Set(zap.New(core))
	v.Get().Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}

	v.Set(nil)
	v.Get().Info("dropped")
	if logs.Len() != 1 {
		t.Fatal("nil Set should restore the no-op logger")
	}
}

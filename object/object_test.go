package object

import (
	"errors"
	"testing"
)

func TestBase_RefCounting(t *testing.T) {
	deallocs := 0
	var b Base
	b.Init(func() { deallocs++ })

	b.IncRef()
	if b.RefCount() != 2 {
		t.Fatalf("RefCount = %d, want 2", b.RefCount())
	}
	b.DecRef()
	if deallocs != 0 {
		t.Fatal("dealloc ran early")
	}
	b.DecRef()
	if deallocs != 1 || !b.Dead() {
		t.Fatalf("dealloc ran %d times, want 1", deallocs)
	}

	// Further calls on a dead object are ignored
	b.DecRef()
	b.IncRef()
	if deallocs != 1 || b.RefCount() != 0 {
		t.Fatal("dead object must stay dead")
	}
}

func TestImmortals(t *testing.T) {
	None.DecRef()
	None.DecRef()
	True.DecRef()
	if None.Dead() || True.Dead() {
		t.Fatal("immortal objects must never die")
	}
}

func TestList_OwnsItems(t *testing.T) {
	a := NewStr("a")
	l := NewList(a)
	if a.RefCount() != 2 {
		t.Fatalf("item RefCount = %d, want 2", a.RefCount())
	}

	a.DecRef()
	if a.Dead() {
		t.Fatal("list reference should keep item alive")
	}

	l.DecRef()
	if !a.Dead() {
		t.Fatal("releasing the list should release its items")
	}
}

func TestNewStrList(t *testing.T) {
	l := NewStrList("--verbose", "file.txt")
	got := l.Strings()
	if len(got) != 2 || got[0] != "--verbose" || got[1] != "file.txt" {
		t.Fatalf("Strings() = %v", got)
	}
	if l.At(0).RefCount() != 1 {
		t.Fatalf("item RefCount = %d, want 1 (owned by list only)", l.At(0).RefCount())
	}
}

func TestDict_SetReplaceDelete(t *testing.T) {
	d := NewDict()
	a := NewStr("a")
	b := NewStr("b")

	d.Set("k", a)
	d.Set("k", b)
	if a.RefCount() != 1 {
		t.Fatalf("replaced value RefCount = %d, want 1", a.RefCount())
	}
	if v, _ := d.Get("k"); v != b {
		t.Fatal("Get returned stale value")
	}

	d.Set("j", a)
	keys := d.Keys()
	if len(keys) != 2 || keys[0] != "k" || keys[1] != "j" {
		t.Fatalf("Keys = %v, want insertion order", keys)
	}

	if !d.Delete("k") || d.Delete("k") {
		t.Fatal("Delete should report presence once")
	}
	if b.RefCount() != 1 {
		t.Fatalf("deleted value RefCount = %d, want 1", b.RefCount())
	}

	d.Clear()
	if d.Len() != 0 || a.RefCount() != 1 {
		t.Fatal("Clear should drop every value")
	}
}

func TestFunc_Call(t *testing.T) {
	f := NewFunc("echo", func(args ...Object) (Object, error) {
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	})

	if !IsCallable(f) {
		t.Fatal("Func must be callable")
	}
	if IsCallable(NewStr("x")) || IsCallable(nil) {
		t.Fatal("Str and nil are not callable")
	}

	res, err := f.Call()
	if err != nil || res != None {
		t.Fatalf("Call() = %v, %v; want None", res, err)
	}

	boom := errors.New("boom")
	g := NewFunc("fail", func(args ...Object) (Object, error) { return nil, boom })
	if _, err := g.Call(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestModule_Attrs(t *testing.T) {
	m := NewModule("hello")
	v := NewInt(3)
	if err := m.SetAttr("x", v); err != nil {
		t.Fatal(err)
	}
	v.DecRef()

	got, ok := GetAttr(m, "x")
	if !ok || got.(*Int).Value != 3 {
		t.Fatalf("GetAttr(x) = %v, %v", got, ok)
	}
	if got.RefCount() != 2 {
		t.Fatalf("RefCount = %d, GetAttr should return a new reference", got.RefCount())
	}
	got.DecRef()
	name, _ := GetAttr(m, "__name__")
	if name.(*Str).Value != "hello" {
		t.Fatalf("__name__ = %v", name)
	}
	name.DecRef()
	if _, ok := GetAttr(NewStr("s"), "x"); ok {
		t.Fatal("objects without attributes report none")
	}

	m.DecRef()
	if !v.Dead() {
		t.Fatal("module dealloc should release its namespace")
	}
}

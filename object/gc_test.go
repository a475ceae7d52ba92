package object

import (
	"testing"
)

func TestCollector_BreaksCycle(t *testing.T) {
	gc := NewCollector()

	m := NewModule("cyclic")
	l := NewList()
	l.Append(m)
	m.SetAttr("self_list", l)

	if n := gc.TrackAll(m); n != 3 {
		t.Fatalf("TrackAll tracked %d objects, want 3 (module, dict, list)", n)
	}

	// Still referenced from here: nothing to collect
	if n := gc.Collect(); n != 0 {
		t.Fatalf("Collect cleared %d reachable objects", n)
	}

	l.DecRef()
	m.DecRef()
	if m.Dead() || l.Dead() {
		t.Fatal("cycle should keep both alive before collection")
	}

	if n := gc.Collect(); n != 3 {
		t.Fatalf("Collect cleared %d objects, want 3", n)
	}
	if !m.Dead() || !l.Dead() {
		t.Fatal("collection should deallocate the cycle")
	}
	if gc.Len() != 0 {
		t.Fatalf("tracked = %d after collection, want 0", gc.Len())
	}
}

func TestCollector_ExternalReferenceKeepsCycle(t *testing.T) {
	gc := NewCollector()

	a := NewList()
	b := NewList()
	a.Append(b)
	b.Append(a)
	gc.TrackAll(a)

	a.DecRef()
	// b still held by this test

	if n := gc.Collect(); n != 0 {
		t.Fatalf("Collect cleared %d objects reachable from b", n)
	}
	if a.Dead() || b.Dead() {
		t.Fatal("externally reachable cycle must survive")
	}

	b.DecRef()
	if n := gc.Collect(); n != 2 {
		t.Fatalf("Collect cleared %d, want 2", n)
	}
}

func TestCollector_TrackIgnoresScalars(t *testing.T) {
	gc := NewCollector()
	if gc.Track(NewStr("x")) {
		t.Fatal("strings hold no references and are not tracked")
	}
	if gc.Track(nil) {
		t.Fatal("nil is not tracked")
	}
	l := NewList()
	if !gc.Track(l) || gc.Track(l) {
		t.Fatal("a list is tracked exactly once")
	}
}

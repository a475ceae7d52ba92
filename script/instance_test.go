package script

import (
	"testing"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

// recordingRegistrar wraps a real registry and remembers unregister order.
type recordingRegistrar struct {
	*command.Registry
	unregistered []string
	names        map[command.Token]string
}

func newRecordingRegistrar() *recordingRegistrar {
	return &recordingRegistrar{
		Registry: command.NewRegistry(),
		names:    make(map[command.Token]string),
	}
}

func (r *recordingRegistrar) Register(category, name string, handler object.Callable) (command.Token, error) {
	tok, err := r.Registry.Register(category, name, handler)
	if err == nil {
		r.names[tok] = name
	}
	return tok, err
}

func (r *recordingRegistrar) Unregister(tok command.Token) bool {
	r.unregistered = append(r.unregistered, r.names[tok])
	return r.Registry.Unregister(tok)
}

func noop() *object.Func {
	return object.NewFunc("noop", func(args ...object.Object) (object.Object, error) {
		return nil, nil
	})
}

func newInstance(t *testing.T, reg Registrar, argv ...string) (*Instance, *object.Module) {
	t.Helper()
	m := object.NewModule("test")
	inst, err := New(reg, m, argv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return inst, m
}

func TestInstance_ArgvAndBind(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg, "--verbose", "file.txt")
	defer m.DecRef()

	argv := inst.Argv()
	if len(argv) != 2 || argv[0] != "--verbose" || argv[1] != "file.txt" {
		t.Fatalf("Argv = %v", argv)
	}
	if inst.State() != StateActive {
		t.Fatalf("State = %v, want active", inst.State())
	}

	if err := inst.CommandBind("hello", noop(), ""); err != nil {
		t.Fatalf("CommandBind: %v", err)
	}
	if inst.BindingCount() != 1 || reg.Len() != 1 {
		t.Fatalf("bindings = %d, registrations = %d", inst.BindingCount(), reg.Len())
	}
	if got := inst.Bindings()[0].Category; got != command.DefaultCategory {
		t.Fatalf("Category = %q, want default", got)
	}

	if n := inst.UnbindAll(); n != 1 {
		t.Fatalf("UnbindAll = %d, want 1", n)
	}
	if inst.BindingCount() != 0 || reg.Len() != 0 {
		t.Fatal("UnbindAll should leave nothing registered")
	}
	if inst.State() != StateUnbound {
		t.Fatalf("State = %v, want unbound", inst.State())
	}

	if n := inst.UnbindAll(); n != 0 || len(reg.unregistered) != 1 {
		t.Fatal("second UnbindAll must have no effect")
	}

	inst.DecRef()
	if inst.State() != StateDestroyed {
		t.Fatalf("State = %v, want destroyed", inst.State())
	}
}

func TestInstance_NotCallable(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg)
	defer m.DecRef()
	defer inst.DecRef()

	tests := []struct {
		name    string
		handler object.Object
	}{
		{"string", object.NewStr("not a function")},
		{"nil", nil},
		{"none", object.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inst.CommandBind("hello", tt.handler, "")
			if !errors.Is(err, errors.ErrNotCallable) {
				t.Fatalf("err = %v, want not callable", err)
			}
			if inst.BindingCount() != 0 || reg.Len() != 0 {
				t.Fatal("a failed bind must not add a binding")
			}
			if inst.State() != StateActive {
				t.Fatal("a failed bind must leave the instance active")
			}
		})
	}
}

func TestInstance_UnbindOrder(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg)
	defer m.DecRef()
	defer inst.DecRef()

	for _, name := range []string{"A", "B", "C"} {
		if err := inst.CommandBind(name, noop(), "test"); err != nil {
			t.Fatal(err)
		}
	}
	inst.UnbindAll()

	want := []string{"A", "B", "C"}
	if len(reg.unregistered) != len(want) {
		t.Fatalf("unregistered = %v", reg.unregistered)
	}
	for i := range want {
		if reg.unregistered[i] != want[i] {
			t.Fatalf("unregistered = %v, want %v", reg.unregistered, want)
		}
	}
}

func TestInstance_DuplicateNames(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg)
	defer m.DecRef()
	defer inst.DecRef()

	inst.CommandBind("dup", noop(), "")
	inst.CommandBind("dup", noop(), "")
	if inst.BindingCount() != 2 || len(reg.Lookup("dup")) != 2 {
		t.Fatal("same-name bindings are tracked independently")
	}
	inst.UnbindAll()
	if reg.Len() != 0 {
		t.Fatal("both registrations should be removed")
	}
}

func TestInstance_HandlerReferences(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg)
	defer m.DecRef()
	defer inst.DecRef()

	h := noop()
	inst.CommandBind("x", h, "")
	if h.RefCount() != 2 {
		t.Fatalf("RefCount = %d, binding should hold a reference", h.RefCount())
	}
	inst.UnbindAll()
	if h.RefCount() != 1 {
		t.Fatalf("RefCount = %d, UnbindAll should drop the reference", h.RefCount())
	}
}

func TestInstance_ClearImports(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg, "a")
	defer m.DecRef()
	defer inst.DecRef()

	dep := object.NewModule("dep")
	inst.Import("dep", dep)
	dep.DecRef()
	inst.CommandBind("keep", noop(), "")

	inst.ClearImports()

	v, _ := inst.GetAttr("modules")
	defer v.DecRef()
	if v.(*object.Dict).Len() != 0 {
		t.Fatal("modules should be empty")
	}
	if !dep.Dead() {
		t.Fatal("clearing imports should release the imported module")
	}
	if argv := inst.Argv(); len(argv) != 1 || argv[0] != "a" {
		t.Fatalf("Argv = %v, should be untouched", argv)
	}
	if inst.Module() != m {
		t.Fatal("module reference should be untouched")
	}
	if inst.BindingCount() != 1 {
		t.Fatal("bindings should be untouched")
	}
	if inst.State() != StateCleared {
		t.Fatalf("State = %v, want cleared", inst.State())
	}
	inst.UnbindAll()
}

func TestInstance_ModuleReference(t *testing.T) {
	m := object.NewModule("owner")
	inst, err := New(newRecordingRegistrar(), m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.RefCount() != 2 {
		t.Fatalf("module RefCount = %d, instance should share it", m.RefCount())
	}
	inst.DecRef()
	if m.RefCount() != 1 {
		t.Fatalf("module RefCount = %d after release", m.RefCount())
	}
	m.DecRef()
}

func TestInstance_ConstructionFailure(t *testing.T) {
	m := object.NewModule("bad")
	defer m.DecRef()

	inst, err := New(newRecordingRegistrar(), m, []string{"ok", "\xff\xfe"})
	if inst != nil {
		t.Fatal("no instance should be returned")
	}
	if !errors.Is(err, errors.ErrAllocationFailed) {
		t.Fatalf("err = %v, want allocation failure", err)
	}
	if m.RefCount() != 1 {
		t.Fatalf("module RefCount = %d, partial instance leaked its reference", m.RefCount())
	}

	if _, err := New(newRecordingRegistrar(), nil, nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("nil module err = %v", err)
	}
}

func TestInstance_DeallocUnbinds(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg)
	defer m.DecRef()

	inst.CommandBind("leftover", noop(), "")
	inst.DecRef()
	if reg.Len() != 0 {
		t.Fatal("dealloc must not leave registrations behind")
	}
}

func TestInstance_Attributes(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg, "x")
	defer m.DecRef()
	defer inst.DecRef()

	if err := inst.SetAttr("module", object.NewModule("other")); err == nil {
		t.Fatal("module should be read-only")
	}
	if err := inst.SetAttr("argv", object.NewStr("nope")); err == nil {
		t.Fatal("argv should only accept a list")
	}

	l := object.NewStrList("y", "z")
	if err := inst.SetAttr("argv", l); err != nil {
		t.Fatal(err)
	}
	l.DecRef()
	if argv := inst.Argv(); len(argv) != 2 || argv[0] != "y" {
		t.Fatalf("Argv = %v", argv)
	}

	got, _ := inst.GetAttr("argv")
	if got != l || l.RefCount() != 2 {
		t.Fatalf("argv RefCount = %d, GetAttr should return a new reference", l.RefCount())
	}
	got.DecRef()

	bind, ok := inst.GetAttr("command_bind")
	if !ok {
		t.Fatal("command_bind missing")
	}
	defer bind.DecRef()
	fn := bind.(object.Callable)
	if _, err := fn.Call(object.NewStr("greet"), noop(), object.NewStr("Greetings")); err != nil {
		t.Fatalf("command_bind(): %v", err)
	}
	if _, err := fn.Call(object.NewStr("greet"), object.NewInt(1)); !errors.Is(err, errors.ErrNotCallable) {
		t.Fatalf("command_bind() with int err = %v", err)
	}
	if _, err := fn.Call(object.NewStr("greet")); !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("command_bind() arity err = %v", err)
	}

	regs := reg.Lookup("greet")
	if len(regs) != 1 || regs[0].Category != "Greetings" {
		t.Fatalf("Lookup = %+v", regs)
	}
	inst.UnbindAll()
}

func TestInstance_DestroyedRejectsAssignment(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg, "x")
	defer m.DecRef()
	inst.DecRef()
	if inst.State() != StateDestroyed {
		t.Fatalf("State = %v, want destroyed", inst.State())
	}

	l := object.NewStrList("late")
	defer l.DecRef()
	d := object.NewDict()
	defer d.DecRef()

	tests := []struct {
		name  string
		value object.Object
		held  interface{ RefCount() int }
	}{
		{"argv", l, l},
		{"modules", d, d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := inst.SetAttr(tt.name, tt.value); !errors.Is(err, errors.ErrInvalidInput) {
				t.Fatalf("SetAttr(%q) err = %v, want invalid input", tt.name, err)
			}
			if tt.held.RefCount() != 1 {
				t.Fatalf("RefCount = %d, destroyed instance must not retain the value", tt.held.RefCount())
			}
		})
	}

	if err := inst.CommandBind("late", noop(), ""); !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("CommandBind err = %v", err)
	}
	if reg.Len() != 0 {
		t.Fatal("destroyed instance must not register commands")
	}
}

func TestInstance_CollectsModuleCycle(t *testing.T) {
	reg := newRecordingRegistrar()
	inst, m := newInstance(t, reg, "--verbose")
	m.SetAttr("_script", inst)

	gc := object.NewCollector()
	gc.TrackAll(inst)

	inst.UnbindAll()
	inst.DecRef()
	m.DecRef()
	if inst.Dead() || m.Dead() {
		t.Fatal("cycle should keep both alive")
	}

	if n := gc.Collect(); n == 0 {
		t.Fatal("collector should find the cycle")
	}
	if !inst.Dead() || !m.Dead() {
		t.Fatal("cycle should be reclaimed")
	}
	if inst.State() != StateDestroyed {
		t.Fatalf("State = %v", inst.State())
	}
}

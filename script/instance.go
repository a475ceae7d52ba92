package script

import (
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

// TypeName is the type name scripts see for an Instance.
const TypeName = "Script"

// State is the lifecycle position of an Instance.
type State uint8

const (
	StateConstructing State = iota
	StateActive
	StateUnbound
	StateCleared
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateActive:
		return "active"
	case StateUnbound:
		return "unbound"
	case StateCleared:
		return "cleared"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Registrar is the command subsystem an Instance binds into.
// *command.Registry implements it.
type Registrar interface {
	Register(category, name string, handler object.Callable) (command.Token, error)
	Unregister(tok command.Token) bool
	DefaultCategory() string
}

// Binding is one command registered by a script.
type Binding struct {
	Handler  object.Callable
	Name     string
	Category string
	Token    command.Token
}

// Instance is the managed state of one loaded script unit.
type Instance struct {
	object.Base
	reg      Registrar
	module   *object.Module
	argv     *object.List
	modules  *object.Dict
	bindings []*Binding
	name     string
	state    State
}

// New creates an instance running in module with the given arguments.
// The instance takes its own reference to module. An argument that is not
// valid UTF-8 fails construction with ErrAllocationFailed; the partly built
// instance is released before the error is returned.
func New(reg Registrar, module *object.Module, argv []string) (*Instance, error) {
	if reg == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "registrar cannot be nil")
	}
	if module == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "module cannot be nil")
	}

	inst := &Instance{
		reg:     reg,
		argv:    object.NewList(),
		modules: object.NewDict(),
		name:    module.Name,
		state:   StateConstructing,
	}
	inst.Init(inst.dealloc)

	module.IncRef()
	inst.module = module

	for i, arg := range argv {
		if !utf8.ValidString(arg) {
			inst.DecRef()
			return nil, errors.AllocationFailed(errors.PhaseScript,
				[]string{"argv", strconv.Itoa(i)}, "argument is not valid UTF-8")
		}
		s := object.NewStr(arg)
		inst.argv.Append(s)
		s.DecRef()
	}

	inst.state = StateActive
	Logger().Debug("script instance created",
		zap.String("script", inst.name),
		zap.Int("args", len(argv)))
	return inst, nil
}

func (*Instance) TypeName() string { return TypeName }

// Name is the name of the module the script runs in.
func (inst *Instance) Name() string {
	return inst.name
}

// State returns the instance's lifecycle state.
func (inst *Instance) State() State {
	return inst.state
}

// CommandBind registers handler for command name under category, or under
// the registrar's default category when category is empty. Several bindings
// may share a name; each is tracked and reversed on its own.
func (inst *Instance) CommandBind(name string, handler object.Object, category string) error {
	if inst.state == StateDestroyed {
		return errors.InvalidInput(errors.PhaseScript, "script instance is destroyed")
	}
	fn, ok := handler.(object.Callable)
	if !ok || fn == nil {
		return errors.NotCallable(errors.PhaseScript, []string{"command_bind", name}, handler)
	}
	if category == "" {
		category = inst.reg.DefaultCategory()
	}

	fn.IncRef()
	tok, err := inst.reg.Register(category, name, fn)
	if err != nil {
		fn.DecRef()
		return errors.Registration(errors.PhaseScript, category, name, err)
	}

	inst.bindings = append(inst.bindings, &Binding{
		Handler:  fn,
		Name:     name,
		Category: category,
		Token:    tok,
	})
	if inst.state == StateUnbound {
		inst.state = StateActive
	}
	return nil
}

// UnbindAll unregisters every binding in the order it was made and drops
// the instance's reference to each handler. It returns the number of
// bindings removed; a second call removes nothing.
func (inst *Instance) UnbindAll() int {
	bindings := inst.bindings
	inst.bindings = nil

	for _, b := range bindings {
		if !inst.reg.Unregister(b.Token) {
			Logger().Warn("binding was not registered",
				zap.String("script", inst.name),
				zap.String("command", b.Name),
				zap.Uint64("token", uint64(b.Token)))
		}
		b.Handler.DecRef()
	}

	if inst.state == StateActive {
		inst.state = StateUnbound
	}
	if len(bindings) > 0 {
		Logger().Debug("script commands unbound",
			zap.String("script", inst.name),
			zap.Int("count", len(bindings)))
	}
	return len(bindings)
}

// ClearImports empties the imported-modules map. Bindings, arguments and
// the module reference are left alone.
func (inst *Instance) ClearImports() {
	if inst.modules != nil {
		inst.modules.Clear()
	}
	if inst.state != StateDestroyed {
		inst.state = StateCleared
	}
}

// BindingCount returns the number of active bindings.
func (inst *Instance) BindingCount() int {
	return len(inst.bindings)
}

// Bindings returns a copy of the active bindings in binding order.
func (inst *Instance) Bindings() []Binding {
	out := make([]Binding, len(inst.bindings))
	for i, b := range inst.bindings {
		out[i] = *b
	}
	return out
}

// Argv returns the current arguments. It is nil once the instance has been
// cleared.
func (inst *Instance) Argv() []string {
	if inst.argv == nil {
		return nil
	}
	return inst.argv.Strings()
}

// Module returns the module reference, borrowed.
func (inst *Instance) Module() *object.Module {
	return inst.module
}

// Modules returns the imported-modules map, borrowed.
func (inst *Instance) Modules() *object.Dict {
	return inst.modules
}

// Import records module under name in the imported-modules map.
func (inst *Instance) Import(name string, module object.Object) {
	if inst.modules == nil {
		inst.modules = object.NewDict()
	}
	inst.modules.Set(name, module)
}

// Traverse visits the references that can take part in a cycle.
func (inst *Instance) Traverse(visit func(object.Object)) {
	if inst.module != nil {
		visit(inst.module)
	}
	if inst.argv != nil {
		visit(inst.argv)
	}
	if inst.modules != nil {
		visit(inst.modules)
	}
}

// Clear drops the module, argument and import references without
// destroying the instance.
func (inst *Instance) Clear() {
	module, argv, modules := inst.module, inst.argv, inst.modules
	inst.module, inst.argv, inst.modules = nil, nil, nil
	if module != nil {
		module.DecRef()
	}
	if argv != nil {
		argv.DecRef()
	}
	if modules != nil {
		modules.DecRef()
	}
}

func (inst *Instance) dealloc() {
	if n := len(inst.bindings); n > 0 {
		Logger().Warn("script instance released with live bindings",
			zap.String("script", inst.name),
			zap.Int("count", n))
		inst.UnbindAll()
	}
	inst.Clear()
	inst.state = StateDestroyed
}

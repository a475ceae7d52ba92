package host

import (
	"context"

	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/script"
)

// Unit is a loadable script.
type Unit interface {
	// Name identifies the script; it must be unique among loaded scripts.
	Name() string

	// Load runs the script's entry point. Commands bound through env stay
	// registered until the script is unloaded.
	Load(ctx context.Context, env *Env) error
}

// Unloader is implemented by units that hold resources of their own.
// Unload runs after the script's commands have been unbound.
type Unloader interface {
	Unload(ctx context.Context, env *Env) error
}

// FuncUnit is a Unit backed by Go functions.
type FuncUnit struct {
	UnitName string
	OnLoad   func(ctx context.Context, env *Env) error
	OnUnload func(ctx context.Context, env *Env) error
}

func (u *FuncUnit) Name() string { return u.UnitName }

func (u *FuncUnit) Load(ctx context.Context, env *Env) error {
	if u.OnLoad == nil {
		return nil
	}
	return u.OnLoad(ctx, env)
}

func (u *FuncUnit) Unload(ctx context.Context, env *Env) error {
	if u.OnUnload == nil {
		return nil
	}
	return u.OnUnload(ctx, env)
}

// Env is what a unit sees of the host while it is loaded.
type Env struct {
	Instance *script.Instance
	Module   *object.Module
	host     *Host
}

// Name is the script's name.
func (e *Env) Name() string {
	return e.Instance.Name()
}

// Bind wraps fn and binds it as command name. An empty category selects
// the registry default.
func (e *Env) Bind(name, category string, fn func(args ...object.Object) (object.Object, error)) error {
	f := object.NewFunc(name, fn)
	defer f.DecRef()
	return e.Instance.CommandBind(name, f, category)
}

// Print writes a line to the host output.
func (e *Env) Print(msg string) {
	e.host.Print(msg)
}

// Factory returns the host's proxy factory.
func (e *Env) Factory() *Factory {
	return e.host.factory
}

// Host returns the host the script is loaded into.
func (e *Env) Host() *Host {
	return e.host
}

package script

import (
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

// GetAttr implements object.AttrGetter; the caller owns the result.
// Cleared references read as None.
func (inst *Instance) GetAttr(name string) (object.Object, bool) {
	var v object.Object
	switch name {
	case "argv":
		if inst.argv != nil {
			v = inst.argv
		}
	case "module":
		if inst.module != nil {
			v = inst.module
		}
	case "modules":
		if inst.modules != nil {
			v = inst.modules
		}
	case "command_bind":
		return object.NewFunc("command_bind", inst.commandBind), true
	default:
		return nil, false
	}
	if v == nil {
		return object.None, true
	}
	v.IncRef()
	return v, true
}

// SetAttr implements object.AttrSetter. argv takes a list and modules a
// dict; module is read-only. A destroyed instance accepts nothing.
func (inst *Instance) SetAttr(name string, value object.Object) error {
	if inst.state == StateDestroyed {
		return errors.InvalidInput(errors.PhaseScript, "script instance is destroyed")
	}
	switch name {
	case "argv":
		l, ok := value.(*object.List)
		if !ok {
			return errors.TypeMismatch(errors.PhaseScript, []string{"argv"}, value, "list")
		}
		l.IncRef()
		old := inst.argv
		inst.argv = l
		if old != nil {
			old.DecRef()
		}
		return nil
	case "modules":
		d, ok := value.(*object.Dict)
		if !ok {
			return errors.TypeMismatch(errors.PhaseScript, []string{"modules"}, value, "dict")
		}
		d.IncRef()
		old := inst.modules
		inst.modules = d
		if old != nil {
			old.DecRef()
		}
		return nil
	case "module":
		return errors.ReadOnly(errors.PhaseScript, name)
	default:
		return errors.NotFound(errors.PhaseScript, "attribute", name)
	}
}

// commandBind is command_bind(cmd, func, category=None) as seen by scripts.
func (inst *Instance) commandBind(args ...object.Object) (object.Object, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, errors.InvalidInput(errors.PhaseScript, "command_bind takes cmd, func and an optional category")
	}
	cmd, ok := args[0].(*object.Str)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseScript, []string{"command_bind", "cmd"}, args[0], "str")
	}

	category := ""
	if len(args) == 3 && args[2] != object.None {
		c, ok := args[2].(*object.Str)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseScript, []string{"command_bind", "category"}, args[2], "str or None")
		}
		category = c.Value
	}

	if err := inst.CommandBind(cmd.Value, args[1], category); err != nil {
		return nil, err
	}
	return nil, nil
}

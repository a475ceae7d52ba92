package object

// Module is the namespace a script unit runs in.
type Module struct {
	Base
	dict *Dict
	Name string
}

// NewModule returns a module with an empty namespace.
func NewModule(name string) *Module {
	m := &Module{Name: name, dict: NewDict()}
	m.Init(m.Clear)
	return m
}

func (*Module) TypeName() string { return "module" }

func (m *Module) String() string { return "<module '" + m.Name + "'>" }

// Dict returns the module namespace, borrowed. It is nil once the module
// has been cleared.
func (m *Module) Dict() *Dict {
	return m.dict
}

// GetAttr looks name up in the namespace.
func (m *Module) GetAttr(name string) (Object, bool) {
	if name == "__name__" {
		return NewStr(m.Name), true
	}
	if m.dict == nil {
		return nil, false
	}
	v, ok := m.dict.Get(name)
	if ok {
		v.IncRef()
	}
	return v, ok
}

// SetAttr binds name in the namespace.
func (m *Module) SetAttr(name string, value Object) error {
	if m.dict == nil {
		m.dict = NewDict()
	}
	m.dict.Set(name, value)
	return nil
}

// Traverse visits the namespace.
func (m *Module) Traverse(visit func(Object)) {
	if m.dict != nil {
		visit(m.dict)
	}
}

// Clear empties the namespace and drops it.
func (m *Module) Clear() {
	d := m.dict
	m.dict = nil
	if d != nil {
		d.Clear()
		d.DecRef()
	}
}

package object

// Object is anything a script can hold a reference to.
type Object interface {
	// TypeName is the name scripts see for the object's type.
	TypeName() string

	IncRef()
	DecRef()
	RefCount() int
}

// Callable is an Object that can be invoked.
type Callable interface {
	Object
	Call(args ...Object) (Object, error)
}

// AttrGetter exposes named attributes. A returned value is a new reference
// owned by the caller, who must Release it.
type AttrGetter interface {
	GetAttr(name string) (Object, bool)
}

// AttrSetter accepts attribute assignment.
type AttrSetter interface {
	SetAttr(name string, value Object) error
}

// Traverser reports every reference an object holds that could take part
// in a cycle.
type Traverser interface {
	Traverse(visit func(Object))
}

// Clearer drops the references reported by Traverse without destroying the
// object itself.
type Clearer interface {
	Clear()
}

// Base implements the reference count. Embed it and call Init from the
// constructor.
type Base struct {
	dealloc  func()
	refs     int
	dead     bool
	immortal bool
}

// Init sets the count to one and installs the hook run when it drops to zero.
func (b *Base) Init(dealloc func()) {
	b.refs = 1
	b.dealloc = dealloc
}

// IncRef adds a reference. It has no effect on a dead object.
func (b *Base) IncRef() {
	if b.dead || b.immortal {
		return
	}
	b.refs++
}

// DecRef drops a reference and runs the dealloc hook when none remain.
func (b *Base) DecRef() {
	if b.dead || b.immortal || b.refs <= 0 {
		return
	}
	b.refs--
	if b.refs == 0 {
		b.dead = true
		if b.dealloc != nil {
			b.dealloc()
		}
	}
}

// RefCount returns the current number of references.
func (b *Base) RefCount() int {
	return b.refs
}

// Dead reports whether the dealloc hook has run.
func (b *Base) Dead() bool {
	return b.dead
}

// Retain is IncRef that tolerates nil.
func Retain(o Object) {
	if o != nil {
		o.IncRef()
	}
}

// Release is DecRef that tolerates nil.
func Release(o Object) {
	if o != nil {
		o.DecRef()
	}
}

// IsCallable reports whether o can be invoked.
func IsCallable(o Object) bool {
	if o == nil {
		return false
	}
	_, ok := o.(Callable)
	return ok
}

// GetAttr reads attribute name from o, if o has attributes. The result is a
// new reference.
func GetAttr(o Object, name string) (Object, bool) {
	g, ok := o.(AttrGetter)
	if !ok {
		return nil, false
	}
	return g.GetAttr(name)
}

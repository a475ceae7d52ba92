package object

import (
	"strconv"
)

// NoneType is the type of None.
type NoneType struct {
	Base
}

func (*NoneType) TypeName() string { return "NoneType" }

func (*NoneType) String() string { return "None" }

// None is the absence of a value. It is immortal.
var None = &NoneType{Base: Base{refs: 1, immortal: true}}

// Str is an immutable string.
type Str struct {
	Base
	Value string
}

// NewStr returns a new string object.
func NewStr(s string) *Str {
	o := &Str{Value: s}
	o.Init(nil)
	return o
}

func (*Str) TypeName() string { return "str" }

func (s *Str) String() string { return s.Value }

// Int is an integer.
type Int struct {
	Base
	Value int64
}

// NewInt returns a new integer object.
func NewInt(v int64) *Int {
	o := &Int{Value: v}
	o.Init(nil)
	return o
}

func (*Int) TypeName() string { return "int" }

func (i *Int) String() string { return strconv.FormatInt(i.Value, 10) }

// Bool is a boolean. Use True, False or BoolOf.
type Bool struct {
	Base
	Value bool
}

var (
	True  = &Bool{Base: Base{refs: 1, immortal: true}, Value: true}
	False = &Bool{Base: Base{refs: 1, immortal: true}, Value: false}
)

// BoolOf returns True or False.
func BoolOf(v bool) *Bool {
	if v {
		return True
	}
	return False
}

func (*Bool) TypeName() string { return "bool" }

func (b *Bool) String() string { return strconv.FormatBool(b.Value) }

// Func wraps a Go function as a callable.
type Func struct {
	Base
	fn   func(args ...Object) (Object, error)
	Name string
}

// NewFunc returns a new callable named name.
func NewFunc(name string, fn func(args ...Object) (Object, error)) *Func {
	o := &Func{Name: name, fn: fn}
	o.Init(nil)
	return o
}

func (*Func) TypeName() string { return "builtin_function" }

func (f *Func) String() string { return "<built-in function " + f.Name + ">" }

// Call invokes the function. A nil result is reported as None.
func (f *Func) Call(args ...Object) (Object, error) {
	res, err := f.fn(args...)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return None, nil
	}
	return res, nil
}

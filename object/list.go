package object

// List is a mutable ordered sequence. It owns a reference to each item.
type List struct {
	Base
	items []Object
}

// NewList returns a list holding items, taking a reference on each.
func NewList(items ...Object) *List {
	l := &List{items: make([]Object, 0, len(items))}
	l.Init(l.clear)
	for _, it := range items {
		l.Append(it)
	}
	return l
}

// NewStrList returns a list of new strings.
func NewStrList(items ...string) *List {
	l := NewList()
	for _, s := range items {
		str := NewStr(s)
		l.Append(str)
		str.DecRef()
	}
	return l
}

func (*List) TypeName() string { return "list" }

// Append adds o to the end of the list, taking a reference.
func (l *List) Append(o Object) {
	Retain(o)
	l.items = append(l.items, o)
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// At returns item i, borrowed.
func (l *List) At(i int) Object {
	return l.items[i]
}

// Items returns a copy of the item slice. The items are borrowed.
func (l *List) Items() []Object {
	out := make([]Object, len(l.items))
	copy(out, l.items)
	return out
}

// Strings returns the string form of every item.
func (l *List) Strings() []string {
	out := make([]string, 0, len(l.items))
	for _, it := range l.items {
		if s, ok := it.(interface{ String() string }); ok {
			out = append(out, s.String())
		} else {
			out = append(out, "<"+it.TypeName()+">")
		}
	}
	return out
}

// Traverse visits every item.
func (l *List) Traverse(visit func(Object)) {
	for _, it := range l.items {
		if it != nil {
			visit(it)
		}
	}
}

// Clear removes all items, dropping their references.
func (l *List) Clear() {
	l.clear()
}

func (l *List) clear() {
	items := l.items
	l.items = nil
	for _, it := range items {
		Release(it)
	}
}

package object

// Dict maps string keys to objects, remembering insertion order.
// It owns a reference to each value.
type Dict struct {
	Base
	values map[string]Object
	keys   []string
}

// NewDict returns an empty dict.
func NewDict() *Dict {
	d := &Dict{values: make(map[string]Object)}
	d.Init(d.clear)
	return d
}

func (*Dict) TypeName() string { return "dict" }

// Set stores v under key, taking a reference on v and dropping the
// reference to any value it replaces.
func (d *Dict) Set(key string, v Object) {
	Retain(v)
	old, ok := d.values[key]
	d.values[key] = v
	if !ok {
		d.keys = append(d.keys, key)
	}
	Release(old)
}

// Get returns the value stored under key, borrowed.
func (d *Dict) Get(key string) (Object, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Delete removes key. It returns false if key was absent.
func (d *Dict) Delete(key string) bool {
	v, ok := d.values[key]
	if !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	Release(v)
	return true
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.values)
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Traverse visits every value.
func (d *Dict) Traverse(visit func(Object)) {
	for _, k := range d.keys {
		if v := d.values[k]; v != nil {
			visit(v)
		}
	}
}

// Clear removes every entry, dropping the references to the values.
func (d *Dict) Clear() {
	d.clear()
}

func (d *Dict) clear() {
	keys := d.keys
	values := d.values
	d.keys = nil
	d.values = make(map[string]Object)
	for _, k := range keys {
		Release(values[k])
	}
}

package irc

// Handle names a record in the Core's table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// InvalidHandle is the sentinel a proxy scrubs its handle to once the record
// it pointed at is gone.
const InvalidHandle Handle = 0

// Kind tells which record type occupies a slot.
type Kind uint8

const (
	KindNone Kind = iota
	KindServer
	KindDCC
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindDCC:
		return "dcc"
	default:
		return "none"
	}
}

// table is an in-memory slot table with a free list.
// Freed slots are reused LIFO, which makes stale handles alias new records.
type table struct {
	entries  []entry
	freeList []Handle
}

type entry struct {
	value any
	kind  Kind
	valid bool
}

func newTable() *table {
	return &table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

func (t *table) insert(kind Kind, value any) Handle {
	e := entry{
		kind:  kind,
		value: value,
		valid: true,
	}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

func (t *table) get(h Handle, kind Kind) (any, bool) {
	if h == InvalidHandle {
		return nil, false
	}

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

func (t *table) remove(h Handle) (any, bool) {
	if h == InvalidHandle {
		return nil, false
	}

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := &t.entries[idx]
	if !e.valid {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.kind = KindNone
	t.freeList = append(t.freeList, h)

	return value, true
}

func (t *table) count(kind Kind) int {
	count := 0
	for _, e := range t.entries {
		if e.valid && e.kind == kind {
			count++
		}
	}
	return count
}

// each iterates live records of kind in slot order.
func (t *table) each(kind Kind, fn func(Handle, any) bool) {
	for i, e := range t.entries {
		if e.valid && e.kind == kind {
			if !fn(Handle(i+1), e.value) {
				return
			}
		}
	}
}

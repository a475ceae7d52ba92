package object

import (
	"go.uber.org/zap"
)

// Collector finds groups of tracked objects that are kept alive only by
// references among themselves and breaks them with Clear.
//
// Only objects implementing Traverser are tracked. References held from
// outside the tracked set (Go variables, untracked containers) are never
// visited, so they keep their targets alive.
type Collector struct {
	index   map[Object]int
	tracked []Object
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		index: make(map[Object]int),
	}
}

// Track adds o to the tracked set if it can hold references.
func (c *Collector) Track(o Object) bool {
	if o == nil {
		return false
	}
	if _, ok := o.(Traverser); !ok {
		return false
	}
	if _, ok := c.index[o]; ok {
		return false
	}
	c.index[o] = len(c.tracked)
	c.tracked = append(c.tracked, o)
	return true
}

// TrackAll tracks root and every traversable object reachable from it.
// It returns the number of newly tracked objects.
func (c *Collector) TrackAll(root Object) int {
	added := 0
	stack := []Object{root}
	seen := make(map[Object]bool)
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if o == nil || seen[o] {
			continue
		}
		seen[o] = true
		t, ok := o.(Traverser)
		if !ok {
			continue
		}
		if c.Track(o) {
			added++
		}
		t.Traverse(func(child Object) {
			stack = append(stack, child)
		})
	}
	return added
}

// Len returns the number of live tracked objects.
func (c *Collector) Len() int {
	c.prune()
	return len(c.tracked)
}

// Collect clears every tracked object that is unreachable from outside the
// tracked set and returns how many were cleared.
func (c *Collector) Collect() int {
	c.prune()
	if len(c.tracked) == 0 {
		return 0
	}

	// Start from each object's full count and subtract the references that
	// come from other tracked objects. Whatever is left is held externally.
	refs := make(map[Object]int, len(c.tracked))
	for _, o := range c.tracked {
		refs[o] = o.RefCount()
	}
	for _, o := range c.tracked {
		o.(Traverser).Traverse(func(child Object) {
			if _, ok := refs[child]; ok {
				refs[child]--
			}
		})
	}

	reachable := make(map[Object]bool, len(c.tracked))
	var stack []Object
	for _, o := range c.tracked {
		if refs[o] > 0 {
			reachable[o] = true
			stack = append(stack, o)
		}
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		o.(Traverser).Traverse(func(child Object) {
			if _, ok := refs[child]; ok && !reachable[child] {
				reachable[child] = true
				stack = append(stack, child)
			}
		})
	}

	var garbage []Object
	for _, o := range c.tracked {
		if !reachable[o] {
			garbage = append(garbage, o)
		}
	}
	if len(garbage) == 0 {
		return 0
	}

	// Hold every member while clearing so none is deallocated mid-pass.
	for _, o := range garbage {
		o.IncRef()
	}
	for _, o := range garbage {
		if cl, ok := o.(Clearer); ok {
			cl.Clear()
		}
	}
	for _, o := range garbage {
		o.DecRef()
	}

	c.prune()
	Logger().Debug("cycle collection",
		zap.Int("cleared", len(garbage)),
		zap.Int("tracked", len(c.tracked)))
	return len(garbage)
}

// prune forgets objects whose count already reached zero.
func (c *Collector) prune() {
	live := c.tracked[:0]
	for _, o := range c.tracked {
		if o.RefCount() > 0 {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(c.tracked); i++ {
		c.tracked[i] = nil
	}
	c.tracked = live
	c.index = make(map[Object]int, len(live))
	for i, o := range live {
		c.index[o] = i
	}
}

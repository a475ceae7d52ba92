// Package logging holds the swappable zap logger each package exposes
// through its Logger and SetLogger functions.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var nop = zap.NewNop()

// Var is a package-level logger slot. The zero value logs nothing.
type Var struct {
	p atomic.Pointer[zap.Logger]
}

// Get returns the installed logger, or a no-op logger.
func (v *Var) Get() *zap.Logger {
	if l := v.p.Load(); l != nil {
		return l
	}
	return nop
}

// Set installs l. A nil l restores the no-op logger.
func (v *Var) Set(l *zap.Logger) {
	v.p.Store(l)
}

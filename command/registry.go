package command

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

// DefaultCategory is used when a registration names no category.
const DefaultCategory = "Python script"

// Token identifies one registration. The zero Token is never issued.
type Token uint64

// Registration is a live entry in the registry.
type Registration struct {
	Handler  object.Callable
	Category string
	Name     string
	Token    Token
}

// Registry maps command names to handlers.
// The registry borrows handlers: the registering party must keep each
// handler alive until it unregisters it.
type Registry struct {
	byToken         map[Token]*Registration
	order           []Token
	next            Token
	defaultCategory string
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultCategory overrides DefaultCategory.
func WithDefaultCategory(category string) Option {
	return func(r *Registry) {
		r.defaultCategory = category
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byToken:         make(map[Token]*Registration),
		defaultCategory: DefaultCategory,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultCategory returns the category used for registrations without one.
func (r *Registry) DefaultCategory() string {
	return r.defaultCategory
}

// Register binds handler to name under category.
func (r *Registry) Register(category, name string, handler object.Callable) (Token, error) {
	if name == "" {
		return 0, errors.InvalidInput(errors.PhaseCommand, "command name cannot be empty")
	}
	if handler == nil {
		return 0, errors.NotCallable(errors.PhaseCommand, []string{name}, handler)
	}
	if category == "" {
		category = r.defaultCategory
	}

	r.next++
	tok := r.next
	r.byToken[tok] = &Registration{
		Handler:  handler,
		Category: category,
		Name:     name,
		Token:    tok,
	}
	r.order = append(r.order, tok)

	Logger().Debug("command registered",
		zap.String("category", category),
		zap.String("name", name),
		zap.Uint64("token", uint64(tok)))
	return tok, nil
}

// Unregister removes the registration for tok.
// It returns false if tok is unknown or was already removed.
func (r *Registry) Unregister(tok Token) bool {
	reg, ok := r.byToken[tok]
	if !ok {
		return false
	}
	delete(r.byToken, tok)
	for i, t := range r.order {
		if t == tok {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	Logger().Debug("command unregistered",
		zap.String("category", reg.Category),
		zap.String("name", reg.Name),
		zap.Uint64("token", uint64(tok)))
	return true
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	return len(r.order)
}

// Lookup returns the registrations for name in registration order.
func (r *Registry) Lookup(name string) []Registration {
	var out []Registration
	for _, t := range r.order {
		if reg := r.byToken[t]; reg.Name == name {
			out = append(out, *reg)
		}
	}
	return out
}

// Registered reports whether tok is live.
func (r *Registry) Registered(tok Token) bool {
	_, ok := r.byToken[tok]
	return ok
}

// Names returns the distinct command names, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range r.order {
		name := r.byToken[t].Name
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Run calls every handler bound to name with args, in registration order.
// Handler errors are logged and joined into the returned error.
func (r *Registry) Run(name string, args ...object.Object) error {
	regs := r.Lookup(name)
	if len(regs) == 0 {
		return errors.NotFound(errors.PhaseCommand, "command", name)
	}

	var errs []error
	for _, reg := range regs {
		// An earlier handler may have unregistered this one.
		if !r.Registered(reg.Token) {
			continue
		}
		if _, err := reg.Handler.Call(args...); err != nil {
			Logger().Warn("command handler failed",
				zap.String("category", reg.Category),
				zap.String("name", name),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

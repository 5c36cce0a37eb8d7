package builder

import (
	"reflect"

	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/message"
)

// Context carries a Registry plus the per-serialization object-identity
// stack used for cycle detection (spec.md §5 "Cycle detection
// (serialization)", §9). A Context is created fresh for each top-level
// ToMessage/EncodeVariant call via NewContext; the stack resets
// automatically once that call returns, matching "the buffer resets at
// envelope boundaries" when a Context is scoped to one envelope's worth
// of serialization.
type Context struct {
	reg  *Registry
	seen map[uintptr]struct{}
}

// NewContext creates a Context over reg with an empty identity stack.
func NewContext(reg *Registry) *Context {
	return &Context{reg: reg, seen: make(map[uintptr]struct{})}
}

// Registry returns the Registry backing ctx.
func (ctx *Context) Registry() *Registry { return ctx.reg }

// identity returns v's pointer identity and whether v is a kind cycles
// can actually form through (pointer, map, non-empty slice, chan, unsafe
// pointer, or an interface wrapping one of those). Func values are not
// tracked. Value kinds (structs,
// arrays, numerics, strings passed by value) can never participate in a
// Go reference cycle, so they are never tracked.
func identity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}

		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return 0, false
		}

		return rv.Pointer(), true
	default:
		return 0, false
	}
}

// enter begins tracking v's identity for the duration of one ToMessage
// call, returning a function that must be called on every exit path to
// stop tracking it. Re-entry with the same identity while still on the
// stack returns errs.ErrCyclicReference, per spec.md §9 ("entering
// begins tracking, leaving removes, re-entry fails").
func (ctx *Context) enter(v any) (func(), error) {
	id, tracked := identity(v)
	if !tracked {
		return func() {}, nil
	}

	if _, dup := ctx.seen[id]; dup {
		return nil, errs.ErrCyclicReference
	}

	ctx.seen[id] = struct{}{}

	return func() { delete(ctx.seen, id) }, nil
}

// ToMessage converts v into its message representation via the
// (toMessage) function registered in ctx's Registry for v's concrete Go
// type, tracking v's identity against ctx's cycle-detection stack for the
// duration of the call.
func ToMessage(ctx *Context, v any) (*message.Message, error) {
	exit, err := ctx.enter(v)
	if err != nil {
		return nil, err
	}
	defer exit()

	e, ok := ctx.reg.lookupByType(reflect.TypeOf(v))
	if !ok {
		return nil, errs.ErrNoBuilderForType
	}

	return e.toMessage(ctx, v)
}

// FromMessage rebuilds a value of the type registered under id from m,
// via the (fromMessage) function registered in ctx's Registry.
func FromMessage(ctx *Context, id TypeID, m *message.Message) (any, error) {
	e, ok := ctx.reg.lookupByID(id)
	if !ok {
		return nil, errs.ErrNoBuilderForType
	}

	return e.fromMessage(ctx, m)
}

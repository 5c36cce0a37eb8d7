// Package dispatch implements the Secondary Type Dispatch registry
// (spec.md §4.10): a table of conversions between application-level Go
// types and the primary wire type Fudge actually encodes them as, used by
// a writer to down-convert values just before emission and by a reader's
// typed accessors to up-convert a stored primary value back to the type
// the caller asked for.
//
// Registration is opt-in and global to a Registry instance; primary types
// always round-trip losslessly without ever consulting a Registry.
package dispatch

import (
	"reflect"
	"sync"

	"github.com/fudgemsg/fudge-go/wire"
)

// ToPrimary converts a secondary-typed application value into the Go value
// native to its primary wire type (e.g. time.Duration -> int64).
type ToPrimary func(v any) (any, error)

// FromPrimary converts a primary wire value back into the secondary
// application type (e.g. int64 -> time.Duration).
type FromPrimary func(v any) (any, error)

type entry struct {
	primaryType wire.Type
	toPrimary   ToPrimary
	fromPrimary FromPrimary
}

// Registry holds the secondary-type conversion table. The zero value is
// not usable; construct one with New.
//
// A Registry is safe for concurrent reads and writes: registration is
// expected at startup, but nothing here prevents it from happening
// alongside reads, matching spec.md §5's "copy-on-write ... recommended"
// guidance for registration-style shared state.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[reflect.Type]entry)}
}

// Register associates the Go type of sample (typically a zero value of
// the secondary type, e.g. time.Duration(0)) with a primary wire type and
// its conversion pair.
func (r *Registry) Register(sample any, primaryType wire.Type, toPrimary ToPrimary, fromPrimary FromPrimary) {
	t := reflect.TypeOf(sample)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[t] = entry{primaryType: primaryType, toPrimary: toPrimary, fromPrimary: fromPrimary}
}

// Lookup returns the registered conversion for the Go type of v, and
// whether one was registered.
func (r *Registry) Lookup(v any) (primaryType wire.Type, toPrimary ToPrimary, fromPrimary FromPrimary, ok bool) {
	t := reflect.TypeOf(v)

	r.mu.RLock()
	defer r.mu.RUnlock()
	e, found := r.entries[t]
	if !found {
		return 0, nil, nil, false
	}

	return e.primaryType, e.toPrimary, e.fromPrimary, true
}

// ToPrimary converts v to its registered primary-type representation, or
// returns v unchanged with ok=false if no secondary type is registered
// for it.
func (r *Registry) ToPrimary(v any) (primary any, primaryType wire.Type, ok bool, err error) {
	pt, to, _, found := r.Lookup(v)
	if !found {
		return v, 0, false, nil
	}

	primary, err = to(v)
	return primary, pt, true, err
}

// FromPrimary converts a decoded primary value back into the secondary
// type registered for sample's Go type.
func (r *Registry) FromPrimary(sample any, primary any) (any, error) {
	_, _, from, found := r.Lookup(sample)
	if !found {
		return primary, nil
	}

	return from(primary)
}

// Package builder replaces reflection-driven object/message mapping (an
// explicit external collaborator per spec.md §9) with explicit, registered
// (toMessage, fromMessage) function pairs keyed by a stable type id. It
// also implements the per-serialization cycle-detection "seen" set and
// the List/Set/Map collection encoding with topological type hints
// (spec.md §4.12, §6).
package builder

import (
	"reflect"
	"sync"

	"github.com/fudgemsg/fudge-go/message"
)

// TypeID is a stable identifier for a registered type, written to the
// wire as a STRING (type-hint fields, tagged variant tags). It must be
// stable across process restarts and schema versions, unlike a Go
// reflect.Type, which is why registration requires one explicitly rather
// than deriving it from the type's name.
type TypeID string

// ToMessageFunc converts a value of a registered type into its message
// representation. ctx carries the active Registry and the cycle-detection
// stack, and must be passed down to any nested ToMessage/EncodeVariant
// calls the function makes for fields holding other registered types.
type ToMessageFunc func(ctx *Context, v any) (*message.Message, error)

// FromMessageFunc is the inverse of ToMessageFunc.
type FromMessageFunc func(ctx *Context, m *message.Message) (any, error)

type entry struct {
	id          TypeID
	sampleType  reflect.Type
	supertypes  []TypeID // registered ancestry, most-specific first, self excluded
	toMessage   ToMessageFunc
	fromMessage FromMessageFunc
}

// Registry is the builder factory (spec.md §3 "Context"): a table from Go
// type to its (toMessage, fromMessage) pair plus its registered supertype
// chain, and from TypeID back to the same entry for decode-side lookup.
//
// A Registry is expected to be populated once at process start and then
// treated as effectively immutable (spec.md §5): registration after
// streams begin referencing it requires external synchronization, same
// as taxonomy.Taxonomy's own contract.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*entry
	byID   map[TypeID]*entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*entry),
		byID:   make(map[TypeID]*entry),
	}
}

// Register binds id to sample's Go type. supertypes lists the type's
// registered ancestry, most-specific first, excluding id itself: since Go
// has no class hierarchy for the topological sort in spec.md §4.12 to
// walk at runtime, the chain is supplied explicitly by the caller (see
// DESIGN.md for this Open Question's resolution).
func (r *Registry) Register(sample any, id TypeID, supertypes []TypeID, toMessage ToMessageFunc, fromMessage FromMessageFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &entry{
		id:          id,
		sampleType:  reflect.TypeOf(sample),
		supertypes:  append([]TypeID(nil), supertypes...),
		toMessage:   toMessage,
		fromMessage: fromMessage,
	}
	r.byType[e.sampleType] = e
	r.byID[id] = e
}

func (r *Registry) lookupByType(t reflect.Type) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byType[t]

	return e, ok
}

func (r *Registry) lookupByID(id TypeID) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]

	return e, ok
}

// IDFor returns the TypeID registered for v's concrete Go type.
func (r *Registry) IDFor(v any) (TypeID, bool) {
	e, ok := r.lookupByType(reflect.TypeOf(v))
	if !ok {
		return "", false
	}

	return e.id, true
}

// chain returns id's own id followed by its registered supertypes,
// most-specific first.
func (r *Registry) chain(id TypeID) ([]TypeID, bool) {
	e, ok := r.lookupByID(id)
	if !ok {
		return nil, false
	}

	return append([]TypeID{id}, e.supertypes...), true
}

// CommonSupertypes computes the subtype-first-ordered intersection of the
// registered ancestry chains of ids (spec.md §4.12's topological sort,
// degenerated to an explicit registered chain per DESIGN.md). Order
// follows ids[0]'s own chain, filtered down to entries present in every
// other id's chain; since every individual chain is already
// most-specific-first, the filtered intersection remains so.
func (r *Registry) CommonSupertypes(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}

	chains := make([][]TypeID, len(ids))
	for i, id := range ids {
		c, ok := r.chain(id)
		if !ok {
			return nil
		}
		chains[i] = c
	}

	var common []TypeID
	for _, candidate := range chains[0] {
		inAll := true
		for _, c := range chains[1:] {
			if !containsID(c, candidate) {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, candidate)
		}
	}

	return common
}

func containsID(chain []TypeID, id TypeID) bool {
	for _, t := range chain {
		if t == id {
			return true
		}
	}

	return false
}

// Package taxonomy implements the ordinal↔name compression table used to
// shrink field headers: a field carrying only an ordinal can have its name
// restored by looking the ordinal up in the taxonomy active for the
// enclosing envelope.
package taxonomy

import (
	"strconv"

	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/internal/hash"
)

// ID identifies a Taxonomy within a Resolver. Id 0 is reserved and always
// means "no taxonomy is active".
type ID uint16

// None is the reserved id meaning no taxonomy is in effect.
const None ID = 0

// Taxonomy is an immutable bijection between short ordinals and field-name
// strings. A Builder constructs one entry pair at a time; once Build is
// called the table never changes, so concurrent lookups need no locking.
type Taxonomy struct {
	byOrdinal map[int16]string
	byName    map[string]int16
}

// Builder accumulates ordinal/name pairs before producing an immutable
// Taxonomy.
type Builder struct {
	interner *hash.Interner
	entries  map[int16]string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		interner: hash.NewInterner(),
		entries:  make(map[int16]string),
	}
}

// Add registers one ordinal/name pair. Add panics if ordinal is already
// registered with a different name, since a taxonomy is a fixed bijection
// agreed on ahead of time, not something built up incrementally at
// runtime from conflicting sources.
func (b *Builder) Add(ordinal int16, name string) *Builder {
	if existing, ok := b.entries[ordinal]; ok && existing != name {
		panic("taxonomy: ordinal " + strconv.Itoa(int(ordinal)) + " already bound to a different name")
	}
	b.entries[ordinal] = b.interner.Intern(name)

	return b
}

// Build produces the immutable Taxonomy from the accumulated entries.
// Build returns an error if two distinct ordinals share a name, since
// name→ordinal lookup would then be ambiguous.
func (b *Builder) Build() (*Taxonomy, error) {
	byOrdinal := make(map[int16]string, len(b.entries))
	byName := make(map[string]int16, len(b.entries))

	for ordinal, name := range b.entries {
		if other, ok := byName[name]; ok && other != ordinal {
			return nil, errs.ErrOrdinalMismatch
		}
		byOrdinal[ordinal] = name
		byName[name] = ordinal
	}

	return &Taxonomy{byOrdinal: byOrdinal, byName: byName}, nil
}

// Name returns the name bound to ordinal, or false if ordinal is not
// present in the taxonomy.
func (t *Taxonomy) Name(ordinal int16) (string, bool) {
	name, ok := t.byOrdinal[ordinal]
	return name, ok
}

// Ordinal returns the ordinal bound to name, or false if name is not
// present in the taxonomy.
func (t *Taxonomy) Ordinal(name string) (int16, bool) {
	ordinal, ok := t.byName[name]
	return ordinal, ok
}

// Len returns the number of ordinal/name pairs in the taxonomy.
func (t *Taxonomy) Len() int {
	return len(t.byOrdinal)
}

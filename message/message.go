package message

import (
	"bytes"
	"reflect"

	"github.com/fudgemsg/fudge-go/stream"
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/fudgemsg/fudge-go/wire"
)

// Message is an ordered multimap of Field values: the Fudge Message Model
// (spec.md §4.8). Lookups by name or ordinal return the first
// insertion-order match; All* variants return every match.
//
// The zero value is an empty, mutable Message ready for use.
type Message struct {
	fields []Field

	// byName and byOrdinal index field positions by key: a map from key to
	// the ordered list of field indices sharing it, so AllByName/
	// AllByOrdinal return every match in insertion order without a linear
	// scan.
	byName    map[string][]int
	byOrdinal map[int16][]int

	tax    *taxonomy.Taxonomy
	frozen bool
}

// New creates an empty, mutable Message.
func New() *Message {
	return &Message{
		byName:    make(map[string][]int),
		byOrdinal: make(map[int16][]int),
	}
}

// NewFrom creates a mutable Message pre-populated with fields, in order.
func NewFrom(fields ...Field) *Message {
	m := New()
	for _, f := range fields {
		m.Add(f)
	}

	return m
}

// SetTaxonomy associates t with m: Add continues to store fields exactly
// as given, but FieldSizers and the bytes produced by Encode apply t's
// name<->ordinal substitution (Testable Property 6), and sub-messages
// encode under their own taxonomy (set independently via their own
// SetTaxonomy), not m's.
func (m *Message) SetTaxonomy(t *taxonomy.Taxonomy) { m.tax = t }

// Freeze returns an immutable snapshot of m: a Message whose field list is
// frozen against further Add/Remove/Clear. m itself is left untouched, so
// Freeze is non-destructive to the mutable original.
func (m *Message) Freeze() *Message {
	frozen := &Message{
		fields:    append([]Field(nil), m.fields...),
		byName:    cloneIndex(m.byName),
		byOrdinal: cloneIndex(m.byOrdinal),
		tax:       m.tax,
		frozen:    true,
	}

	return frozen
}

func cloneIndex[K comparable](src map[K][]int) map[K][]int {
	dst := make(map[K][]int, len(src))
	for k, v := range src {
		dst[k] = append([]int(nil), v...)
	}

	return dst
}

// Len returns the number of fields in m.
func (m *Message) Len() int { return len(m.fields) }

// ByIndex returns the i-th inserted field.
func (m *Message) ByIndex(i int) (Field, bool) {
	if i < 0 || i >= len(m.fields) {
		return Field{}, false
	}

	return m.fields[i], true
}

// ByName returns the first field named n, in insertion order.
func (m *Message) ByName(n string) (Field, bool) {
	idx, ok := m.byName[n]
	if !ok || len(idx) == 0 {
		return Field{}, false
	}

	return m.fields[idx[0]], true
}

// ByOrdinal returns the first field with ordinal o, in insertion order.
func (m *Message) ByOrdinal(o int16) (Field, bool) {
	idx, ok := m.byOrdinal[o]
	if !ok || len(idx) == 0 {
		return Field{}, false
	}

	return m.fields[idx[0]], true
}

// AllByName returns every field named n, preserving insertion order.
func (m *Message) AllByName(n string) []Field {
	idx := m.byName[n]
	out := make([]Field, len(idx))
	for i, p := range idx {
		out[i] = m.fields[p]
	}

	return out
}

// AllByOrdinal returns every field with ordinal o, preserving insertion order.
func (m *Message) AllByOrdinal(o int16) []Field {
	idx := m.byOrdinal[o]
	out := make([]Field, len(idx))
	for i, p := range idx {
		out[i] = m.fields[p]
	}

	return out
}

// Fields returns every field in insertion order. The returned slice is a
// fresh copy; mutating it does not affect m.
func (m *Message) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Add appends f to m. It panics if m is frozen, mirroring the teacher's
// encoder contract that a finished/frozen structure is not reusable.
func (m *Message) Add(f Field) *Message {
	if m.frozen {
		panic("message: Add called on a frozen Message")
	}

	idx := len(m.fields)
	m.fields = append(m.fields, f)

	if name, ok := f.Name(); ok {
		m.byName[name] = append(m.byName[name], idx)
	}
	if ordinal, ok := f.Ordinal(); ok {
		m.byOrdinal[ordinal] = append(m.byOrdinal[ordinal], idx)
	}

	return m
}

// RemoveName removes every field named n, preserving relative order of the
// remaining fields. It reports whether anything was removed.
func (m *Message) RemoveName(n string) bool {
	return m.removeWhere(func(f Field) bool {
		name, ok := f.Name()
		return ok && name == n
	})
}

// RemoveOrdinal removes every field with ordinal o, preserving relative
// order of the remaining fields. It reports whether anything was removed.
func (m *Message) RemoveOrdinal(o int16) bool {
	return m.removeWhere(func(f Field) bool {
		ordinal, ok := f.Ordinal()
		return ok && ordinal == o
	})
}

func (m *Message) removeWhere(match func(Field) bool) bool {
	if m.frozen {
		panic("message: Remove called on a frozen Message")
	}

	kept := m.fields[:0]
	removed := false
	for _, f := range m.fields {
		if match(f) {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	m.fields = kept
	m.reindex()

	return removed
}

func (m *Message) reindex() {
	m.byName = make(map[string][]int, len(m.byName))
	m.byOrdinal = make(map[int16][]int, len(m.byOrdinal))
	for i, f := range m.fields {
		if name, ok := f.Name(); ok {
			m.byName[name] = append(m.byName[name], i)
		}
		if ordinal, ok := f.Ordinal(); ok {
			m.byOrdinal[ordinal] = append(m.byOrdinal[ordinal], i)
		}
	}
}

// Clear removes every field from m.
func (m *Message) Clear() *Message {
	if m.frozen {
		panic("message: Clear called on a frozen Message")
	}

	m.fields = nil
	m.byName = make(map[string][]int)
	m.byOrdinal = make(map[int16][]int)

	return m
}

// SetNamesFromTaxonomy fills in the name of every field that has an
// ordinal but no name, using t, and recurses into sub-message fields
// (spec.md §4.8). It does not touch m's own taxonomy association (see
// SetTaxonomy); it only mutates field name presence.
func (m *Message) SetNamesFromTaxonomy(t *taxonomy.Taxonomy) {
	if m.frozen {
		panic("message: SetNamesFromTaxonomy called on a frozen Message")
	}

	for i, f := range m.fields {
		if !f.hasName {
			if ordinal, ok := f.Ordinal(); ok {
				if name, ok := t.Name(ordinal); ok {
					m.fields[i] = f.WithName(name)
				}
			}
		}
		switch sub := f.value.(type) {
		case *Message:
			sub.SetNamesFromTaxonomy(t)
		case *EncodedMessage:
			// Filling in names mutates decoded fields in place, which only
			// makes sense against a materialized sub-message.
			if eager, err := sub.Materialize(); err == nil {
				eager.SetNamesFromTaxonomy(t)
			}
		}
	}
	m.reindex()
}

// Equal reports whether m and other have the same length and pairwise
// field-equal contents in iteration order (spec.md §4.8).
func (m *Message) Equal(other *Message) bool {
	if other == nil {
		return false
	}
	if len(m.fields) != len(other.fields) {
		return false
	}

	for i := range m.fields {
		if !fieldsEqual(m.fields[i], other.fields[i]) {
			return false
		}
	}

	return true
}

func fieldsEqual(a, b Field) bool {
	if a.hasName != b.hasName || a.name != b.name {
		return false
	}
	if a.hasOrdinal != b.hasOrdinal || a.ordinal != b.ordinal {
		return false
	}
	if a.wireType != b.wireType {
		return false
	}

	av, bv := normalizeForEqual(a.value), normalizeForEqual(b.value)

	am, aIsMsg := av.(*Message)
	bm, bIsMsg := bv.(*Message)
	if aIsMsg || bIsMsg {
		return aIsMsg && bIsMsg && am.Equal(bm)
	}

	return reflect.DeepEqual(av, bv)
}

// normalizeForEqual collapses a lazy *EncodedMessage value into its fully
// materialized *Message so Equal can compare lazy and eager sub-messages
// uniformly (spec.md §4.9 Testable Property 7). A materialization failure
// is treated as inequality.
func normalizeForEqual(v any) any {
	e, ok := v.(*EncodedMessage)
	if !ok {
		return v
	}

	m, err := e.Materialize()
	if err != nil {
		return nil
	}

	return m
}

// Hash returns a weak but insertion-order-independent-on-length hash, per
// spec.md §4.8 ("hashing uses the field count"). It exists primarily so
// Message can be used as a map value alongside Equal-based comparison, not
// as a collision-resistant digest.
func (m *Message) Hash() int { return len(m.fields) }

// SubstitutedFields returns m's fields with taxonomy substitution already
// applied per m's active taxonomy (see SetTaxonomy): this is the exact
// field shape a stream.Writer configured with the same taxonomy emits, so
// callers that need to size or further transform (e.g. compress) the
// wire-bound shape of m's fields before writing them should build on this
// rather than m.Fields.
func (m *Message) SubstitutedFields() []Field {
	out := make([]Field, len(m.fields))
	for i, f := range m.fields {
		out[i] = m.substitute(f)
	}

	return out
}

// FieldSizers returns m's fields as a []wire.FieldSizer, with taxonomy
// substitution already applied per m's active taxonomy (see SetTaxonomy):
// this is the shape the wire package's size calculator must see so its
// prediction matches the bytes Encode actually writes.
func (m *Message) FieldSizers() []wire.FieldSizer {
	fields := m.SubstitutedFields()
	out := make([]wire.FieldSizer, len(fields))
	for i, f := range fields {
		out[i] = f
	}

	return out
}

// substitute applies m.tax's name<->ordinal substitution to f, mirroring
// stream.Writer.WriteField exactly: a name-only field resolves to its
// ordinal when the taxonomy has one; a field carrying both resolves to
// ordinal-only when the taxonomy confirms they agree (spec.md §9), and is
// otherwise left untouched so both are written verbatim.
func (m *Message) substitute(f Field) Field {
	if m.tax == nil {
		return f
	}
	name, hasName := f.Name()
	ordinal, hasOrdinal := f.Ordinal()

	if hasName && !hasOrdinal {
		if resolved, ok := m.tax.Ordinal(name); ok {
			return f.clearName().WithOrdinal(resolved)
		}
		return f
	}

	if hasName && hasOrdinal {
		if resolved, ok := m.tax.Ordinal(name); ok && resolved == ordinal {
			return f.clearName()
		}
	}

	return f
}

// Size returns the exact encoded byte size of m's field section (not
// including any envelope header), per wire.MessageSize.
func (m *Message) Size() int {
	return wire.MessageSize(m.FieldSizers())
}

// encodeFields serializes m's fields in order, applying m's own active
// taxonomy (see SetTaxonomy) via a stream.Writer. Sub-message fields
// recurse through their own Message.encodeFields via Field.Payload,
// applying whatever taxonomy that nested Message was independently given.
func (m *Message) encodeFields() []byte {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	w.SetTaxonomy(m.tax)

	fw := make([]stream.FieldWriter, len(m.fields))
	for i, f := range m.fields {
		fw[i] = f
	}

	// An in-memory bytes.Buffer sink never fails to write.
	_ = w.WriteFields(fw)

	return buf.Bytes()
}

// Encode serializes m's fields to a freshly allocated byte slice, applying
// m's active taxonomy. Its length always equals m.Size().
func (m *Message) Encode() []byte {
	return m.encodeFields()
}

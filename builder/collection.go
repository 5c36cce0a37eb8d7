package builder

import (
	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/message"
	"github.com/fudgemsg/fudge-go/wire"
)

// Reserved ordinals for collection encoding (spec.md §6).
const (
	ValueTypeHintOrdinal int16 = -2
	KeyTypeHintOrdinal   int16 = -1
	KeyOrdinal           int16 = 1
	ValueOrdinal         int16 = 2
)

// EncodeList emits elems as a sub-message: each element becomes one
// field with no name and no ordinal, in order; a nil element is written
// as an INDICATOR. Type-hint fields at ValueTypeHintOrdinal, most-
// specific first, precede the elements when every non-nil element's
// registered supertype chains share at least one common ancestor
// (spec.md §4.12, §6).
func EncodeList(ctx *Context, elems []any) (*message.Message, error) {
	m := message.New()

	hints, err := elementHints(ctx, elems)
	if err != nil {
		return nil, err
	}
	for _, h := range hints {
		m.Add(message.NewString(string(h)).WithOrdinal(ValueTypeHintOrdinal))
	}

	for _, e := range elems {
		if e == nil {
			m.Add(message.NewIndicator())
			continue
		}

		em, err := ToMessage(ctx, e)
		if err != nil {
			return nil, err
		}
		m.Add(message.NewSubMessage(em))
	}

	return m, nil
}

// DecodeList rebuilds the element list from a message built by
// EncodeList. For each element, every type-hint TypeID is tried in
// order (most-specific first) until one successfully decodes, per
// spec.md §4.12 ("the reader ... tries hints in order until one yields
// a successful decode").
func DecodeList(ctx *Context, m *message.Message) ([]any, error) {
	hints := hintIDs(m, ValueTypeHintOrdinal)

	var out []any
	for _, f := range m.Fields() {
		if _, ok := f.Ordinal(); ok {
			continue // a hint field, already collected above
		}

		if f.WireType() == wire.TypeIndicator {
			out = append(out, nil)
			continue
		}

		sub, err := asMessage(f.Value())
		if err != nil {
			return nil, err
		}

		v, err := decodeWithHints(ctx, hints, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// EncodeSet behaves exactly like EncodeList: the wire shape is
// identical, per spec.md §6 ("Set encoding. Same as list.").
func EncodeSet(ctx *Context, elems []any) (*message.Message, error) {
	return EncodeList(ctx, elems)
}

// DecodeSet behaves exactly like DecodeList, returned as a plain slice;
// the reader MAY reconstruct it into a set-shaped collection.
func DecodeSet(ctx *Context, m *message.Message) ([]any, error) {
	return DecodeList(ctx, m)
}

// MapEntry is one key/value pair in a map collection. A plain Go map is
// not used for the in-memory representation because the wire format's
// entry order is significant (spec.md §9 "Multi-map semantics ...
// Iterator order matters for equality and for round-trip"), and Go map
// iteration order is randomized.
type MapEntry struct {
	Key   any
	Value any
}

// EncodeMap emits entries as a sub-message pair-stream: for each entry,
// one field at KeyOrdinal holding the key followed by one field at
// ValueOrdinal holding the value, in order. Optional hint fields at
// KeyTypeHintOrdinal and ValueTypeHintOrdinal precede the entries.
func EncodeMap(ctx *Context, entries []MapEntry) (*message.Message, error) {
	m := message.New()

	keys := make([]any, len(entries))
	values := make([]any, len(entries))
	for i, e := range entries {
		keys[i], values[i] = e.Key, e.Value
	}

	keyHints, err := elementHints(ctx, keys)
	if err != nil {
		return nil, err
	}
	for _, h := range keyHints {
		m.Add(message.NewString(string(h)).WithOrdinal(KeyTypeHintOrdinal))
	}

	valueHints, err := elementHints(ctx, values)
	if err != nil {
		return nil, err
	}
	for _, h := range valueHints {
		m.Add(message.NewString(string(h)).WithOrdinal(ValueTypeHintOrdinal))
	}

	for _, e := range entries {
		kf, err := entryField(ctx, e.Key, KeyOrdinal)
		if err != nil {
			return nil, err
		}
		m.Add(kf)

		vf, err := entryField(ctx, e.Value, ValueOrdinal)
		if err != nil {
			return nil, err
		}
		m.Add(vf)
	}

	return m, nil
}

func entryField(ctx *Context, v any, ordinal int16) (message.Field, error) {
	if v == nil {
		return message.NewIndicator().WithOrdinal(ordinal), nil
	}

	em, err := ToMessage(ctx, v)
	if err != nil {
		return message.Field{}, err
	}

	return message.NewSubMessage(em).WithOrdinal(ordinal), nil
}

// DecodeMap rebuilds the entry list from a message built by EncodeMap:
// fields are consumed two at a time (key then value) in order, skipping
// the leading hint fields.
func DecodeMap(ctx *Context, m *message.Message) ([]MapEntry, error) {
	keyHints := hintIDs(m, KeyTypeHintOrdinal)
	valueHints := hintIDs(m, ValueTypeHintOrdinal)

	var pending []message.Field
	for _, f := range m.Fields() {
		ord, ok := f.Ordinal()
		if ok && (ord == KeyTypeHintOrdinal || ord == ValueTypeHintOrdinal) {
			continue
		}
		pending = append(pending, f)
	}

	var out []MapEntry
	for i := 0; i+1 < len(pending); i += 2 {
		key, err := decodeEntryField(ctx, pending[i], keyHints)
		if err != nil {
			return nil, err
		}
		value, err := decodeEntryField(ctx, pending[i+1], valueHints)
		if err != nil {
			return nil, err
		}
		out = append(out, MapEntry{Key: key, Value: value})
	}

	return out, nil
}

func decodeEntryField(ctx *Context, f message.Field, hints []TypeID) (any, error) {
	if f.Value() == nil {
		return nil, nil
	}

	sub, err := asMessage(f.Value())
	if err != nil {
		return nil, err
	}

	return decodeWithHints(ctx, hints, sub)
}

// elementHints computes the common registered supertype chain across
// every non-nil value in vs, most-specific first (spec.md §4.12).
func elementHints(ctx *Context, vs []any) ([]TypeID, error) {
	var ids []TypeID
	for _, v := range vs {
		if v == nil {
			continue
		}
		id, ok := ctx.reg.IDFor(v)
		if !ok {
			return nil, errs.ErrNoBuilderForType
		}
		ids = append(ids, id)
	}

	return ctx.reg.CommonSupertypes(ids), nil
}

func hintIDs(m *message.Message, ordinal int16) []TypeID {
	fields := m.AllByOrdinal(ordinal)
	ids := make([]TypeID, len(fields))
	for i, f := range fields {
		if s, ok := f.Value().(string); ok {
			ids[i] = TypeID(s)
		}
	}

	return ids
}

// decodeWithHints tries each hint TypeID in order, most-specific first,
// and returns the first successful decode. No TypeID outside hints is
// tried: when every hint fails, the last hint's error is returned. A
// collection written without hints (its non-nil elements share no entry
// of their registered supertype chains, or it has no non-nil element)
// requires the caller to already know the element type; DecodeList/
// DecodeMap surface ErrNoBuilderForType in that case.
func decodeWithHints(ctx *Context, hints []TypeID, sub *message.Message) (any, error) {
	var lastErr error
	for _, h := range hints {
		v, err := FromMessage(ctx, h, sub)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return nil, errs.ErrNoBuilderForType
}

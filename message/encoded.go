package message

import (
	"io"

	"github.com/fudgemsg/fudge-go/stream"
	"github.com/fudgemsg/fudge-go/taxonomy"
)

// EncodedMessage is a lazily-materialized view over an envelope's field
// section, backed by a stream.Reader positioned at the start of that
// section (spec.md §4.9). Fields are decoded only as queries demand them;
// a query that the already-materialized prefix cannot satisfy pulls more
// elements from the reader until it can, or the reader is exhausted.
//
// A sub-message field encountered while materializing becomes a nested
// EncodedMessage sharing the same underlying byte buffer (non-owning
// view, per spec.md §5 "Lazy sub-message ownership"); call Materialize to
// force it (and everything beneath it) into a plain, buffer-independent
// Message.
type EncodedMessage struct {
	core     *Message
	reader   *stream.Reader
	resolver taxonomy.Resolver
	done     bool
	err      error

	// Header fields, populated by NewEncoded from the envelope header
	// element; zero on a nested sub-message view (a sub-message has no
	// header of its own).
	processingDirectives byte
	schemaVersion        byte
	taxonomyID           taxonomy.ID
}

// NewEncoded creates a lazy view over data, which must hold exactly one
// envelope (header included). resolver may be nil if ordinal-only fields
// never need their name resolved from a taxonomy. codecs, if given,
// reverses the optional payload-compression extension (SPEC_FULL.md §C)
// on any field wrapped behind one of its registered extension types.
func NewEncoded(data []byte, resolver taxonomy.Resolver, codecs ...stream.PayloadCodec) (*EncodedMessage, error) {
	r := stream.NewReader(data)
	r.SetResolver(resolver)
	r.SetPayloadCodecs(codecs...)

	hdr, err := r.Next() // consumes the envelope header element
	if err != nil {
		return nil, err
	}

	return &EncodedMessage{
		core: New(), reader: r, resolver: resolver,
		processingDirectives: hdr.ProcessingDirectives,
		schemaVersion:        hdr.SchemaVersion,
		taxonomyID:           hdr.TaxonomyID,
	}, nil
}

// ProcessingDirectives returns the envelope header's processing directives
// byte. It is always 0 on a nested sub-message view.
func (e *EncodedMessage) ProcessingDirectives() byte { return e.processingDirectives }

// SchemaVersion returns the envelope header's schema version byte. It is
// always 0 on a nested sub-message view.
func (e *EncodedMessage) SchemaVersion() byte { return e.schemaVersion }

// TaxonomyID returns the envelope header's taxonomy id. It is always
// taxonomy.None on a nested sub-message view.
func (e *EncodedMessage) TaxonomyID() taxonomy.ID { return e.taxonomyID }

// newEncodedSub wraps a reader already scoped to a sub-message's own
// field section (as returned by stream.Reader.SkipSubMessage) into a
// nested lazy view.
func newEncodedSub(r *stream.Reader, resolver taxonomy.Resolver) *EncodedMessage {
	return &EncodedMessage{core: New(), reader: r, resolver: resolver}
}

// materializeNext pulls one more element from the reader into core. It
// reports false once the reader is exhausted (not an error).
func (e *EncodedMessage) materializeNext() (bool, error) {
	if e.done {
		return false, e.err
	}

	el, err := e.reader.Next()
	if err != nil {
		if err == io.EOF {
			e.done = true
			return false, nil
		}
		e.err, e.done = err, true
		return false, err
	}

	switch el.Kind {
	case stream.KindField:
		v, derr := decodeValue(el.WireType, el.Payload)
		if derr != nil {
			e.err, e.done = derr, true
			return false, derr
		}
		e.core.Add(Field{
			name: el.Name, hasName: el.HasName,
			ordinal: el.Ordinal, hasOrdinal: el.HasOrdinal,
			wireType: el.WireType, value: v,
		})

		return true, nil

	case stream.KindSubMessageStart:
		sub, serr := e.reader.SkipSubMessage()
		if serr != nil {
			e.err, e.done = serr, true
			return false, serr
		}
		nested := newEncodedSub(sub, e.resolver)
		e.core.Add(Field{
			name: el.Name, hasName: el.HasName,
			ordinal: el.Ordinal, hasOrdinal: el.HasOrdinal,
			wireType: el.WireType, value: nested,
		})

		return true, nil

	default:
		// KindSubMessageEnd follows every SkipSubMessage above and carries
		// no field; KindEnvelope does not occur once a Reader is scoped to a
		// single field section. Either way no field was produced, so report
		// progress and let the caller try again.
		return true, nil
	}
}

// ensure pulls fields until found reports true or the reader is
// exhausted.
func (e *EncodedMessage) ensure(found func() bool) error {
	for !found() && !e.done {
		if _, err := e.materializeNext(); err != nil {
			return err
		}
	}

	return e.err
}

// MaterializeAll pulls every remaining field from the reader into core,
// without descending into nested sub-messages.
func (e *EncodedMessage) MaterializeAll() error {
	return e.ensure(func() bool { return false })
}

// Materialize fully decodes e, including every nested sub-message, and
// returns the resulting eager Message. The returned Message no longer
// shares any state with e's underlying reader.
func (e *EncodedMessage) Materialize() (*Message, error) {
	if err := e.MaterializeAll(); err != nil {
		return nil, err
	}

	for i, f := range e.core.fields {
		if nested, ok := f.value.(*EncodedMessage); ok {
			sub, err := nested.Materialize()
			if err != nil {
				return nil, err
			}
			e.core.fields[i] = f.replaceValue(sub)
		}
	}
	e.core.reindex()

	return e.core, nil
}

// Len returns the total number of fields, fully materializing e if it
// was not already.
func (e *EncodedMessage) Len() int {
	_ = e.MaterializeAll()
	return e.core.Len()
}

// ByIndex returns the i-th field, materializing up to and including index
// i if needed.
func (e *EncodedMessage) ByIndex(i int) (Field, bool) {
	_ = e.ensure(func() bool { return i < len(e.core.fields) })
	return e.core.ByIndex(i)
}

// ByName returns the first field named n, materializing fields until one
// is found or the reader is exhausted.
func (e *EncodedMessage) ByName(n string) (Field, bool) {
	_ = e.ensure(func() bool {
		idx, ok := e.core.byName[n]
		return ok && len(idx) > 0
	})

	return e.core.ByName(n)
}

// ByOrdinal returns the first field with ordinal o, materializing fields
// until one is found or the reader is exhausted.
func (e *EncodedMessage) ByOrdinal(o int16) (Field, bool) {
	_ = e.ensure(func() bool {
		idx, ok := e.core.byOrdinal[o]
		return ok && len(idx) > 0
	})

	return e.core.ByOrdinal(o)
}

// AllByName returns every field named n. Since a later field could always
// still match, this always fully materializes e.
func (e *EncodedMessage) AllByName(n string) []Field {
	_ = e.MaterializeAll()
	return e.core.AllByName(n)
}

// AllByOrdinal returns every field with ordinal o. Like AllByName, this
// always fully materializes e.
func (e *EncodedMessage) AllByOrdinal(o int16) []Field {
	_ = e.MaterializeAll()
	return e.core.AllByOrdinal(o)
}

// Equal fully materializes both e and other and compares them under
// Message equality (spec.md §4.9 Testable Property 7).
func (e *EncodedMessage) Equal(other *EncodedMessage) bool {
	a, err := e.Materialize()
	if err != nil {
		return false
	}
	b, err := other.Materialize()
	if err != nil {
		return false
	}

	return a.Equal(b)
}

// EqualMessage fully materializes e and compares it against an
// eagerly-decoded m under Message equality.
func (e *EncodedMessage) EqualMessage(m *Message) bool {
	a, err := e.Materialize()
	if err != nil {
		return false
	}

	return a.Equal(m)
}

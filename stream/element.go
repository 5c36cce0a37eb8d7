package stream

import (
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/fudgemsg/fudge-go/wire"
)

// Kind identifies which variant of Element a StreamReader yielded.
type Kind uint8

const (
	// KindEnvelope marks the start of a new envelope; only Envelope* fields
	// on the Element are populated.
	KindEnvelope Kind = iota
	// KindField marks a non-MESSAGE field whose raw payload bytes are in
	// Element.Payload (see Payload for unregistered type ids).
	KindField
	// KindSubMessageStart marks a field whose wire type is MESSAGE; the
	// caller should continue calling Next to read its nested fields, or
	// call SkipSubMessage to skip straight to the matching KindSubMessageEnd.
	KindSubMessageStart
	// KindSubMessageEnd marks the end of the most recently started
	// sub-message; no field data accompanies it.
	KindSubMessageEnd
)

// Element is one item yielded by a StreamReader's pull-based iteration.
type Element struct {
	Kind Kind

	// Populated when Kind == KindEnvelope.
	ProcessingDirectives byte
	SchemaVersion        byte
	TaxonomyID           taxonomy.ID
	EnvelopeSize         int32

	// Populated when Kind == KindField or KindSubMessageStart.
	HasName    bool
	Name       string
	HasOrdinal bool
	Ordinal    int16
	WireType   wire.Type

	// Payload holds the raw big-endian wire bytes for the field's value
	// when Kind == KindField. For registered fixed/variable scalar types
	// this is the value's encoded bytes; for an unregistered type id it is
	// the opaque payload of an wire.UnknownValue. It is never populated for
	// MESSAGE fields, which instead produce a KindSubMessageStart/End pair.
	//
	// Payload aliases the Reader's internal buffer and is only valid until
	// the next call to Next.
	Payload []byte

	// Depth is the sub-message nesting depth this element was read at; 0
	// for elements read directly inside the envelope.
	Depth int
}

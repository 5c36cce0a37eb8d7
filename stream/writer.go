package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fudgemsg/fudge-go/compress"
	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/internal/options"
	"github.com/fudgemsg/fudge-go/internal/pool"
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/fudgemsg/fudge-go/wire"
)

// payloadCodecExtensionBase is the first user-extension wire type id the
// payload-compression extension claims (SPEC_FULL.md §C); each built-in
// compress.CompressionType gets its own id above it, keeping every
// extension id deterministic and inside the user-extension range
// (32..255, spec.md §4.6).
const payloadCodecExtensionBase = 200

// ExtensionTypeFor returns the user-extension wire type id a payload
// compressed with algorithm is wrapped behind when the payload-compression
// extension applies to it.
func ExtensionTypeFor(algorithm compress.CompressionType) wire.Type {
	return wire.Type(payloadCodecExtensionBase + uint8(algorithm))
}

// payloadCodec is one Writer-side payload-compression binding: fields of
// wireType whose encoded payload is at least minSize bytes are compressed
// with codec and re-wrapped behind ExtensionTypeFor(algorithm).
type payloadCodec struct {
	extensionType wire.Type
	algorithm     compress.CompressionType
	codec         compress.Codec
	minSize       int
}

// Option configures a Writer at construction time.
type Option = options.Option[*Writer]

// WithPayloadCodec enables the optional payload-compression extension
// (SPEC_FULL.md §C) for fields carrying wireType: once PrepareFields (or
// WriteFields, which calls it implicitly) processes them, any such field
// whose encoded payload is at least minSize bytes is compressed with codec
// and rewritten as a field of wire type ExtensionTypeFor(algorithm), whose
// payload is a single CompressionType byte followed by the compressed
// bytes. The extension is fully opt-in: a Writer with no codecs
// registered produces byte-identical output to one built before this
// option existed.
func WithPayloadCodec(wireType wire.Type, algorithm compress.CompressionType, codec compress.Codec, minSize int) Option {
	return options.NoError(func(w *Writer) {
		if codec == nil || minSize < 0 {
			return
		}
		if w.codecs == nil {
			w.codecs = make(map[wire.Type]payloadCodec)
		}
		w.codecs[wireType] = payloadCodec{
			extensionType: ExtensionTypeFor(algorithm),
			algorithm:     algorithm,
			codec:         codec,
			minSize:       minSize,
		}
	})
}

// FieldWriter is the minimal view a Writer needs of a field in order to
// emit it: its header shape (wire.FieldSizer) plus the already-encoded
// big-endian payload bytes. The message package's Field type implements
// this directly; callers assembling fields by hand can satisfy it with a
// small adapter.
type FieldWriter interface {
	wire.FieldSizer
	// Payload returns the field's value already encoded as big-endian
	// wire bytes. For a MESSAGE field this is the fully-encoded bytes of
	// the nested envelope's field section.
	Payload() []byte
}

// Writer serializes envelope headers and fields onto a byte sink in the
// canonical Fudge wire format.
//
// A Writer is not safe for concurrent use. It is not reusable across
// unrelated envelopes beyond calling WriteEnvelopeHeader again: state
// between envelopes is limited to the active taxonomy and is cheap to
// carry forward intentionally (setTaxonomy's effect is meant to persist
// across envelopes written on the same stream).
type Writer struct {
	sink     io.Writer
	tax      *taxonomy.Taxonomy
	codecs   map[wire.Type]payloadCodec
	poisoned bool
}

// NewWriter creates a Writer that emits onto sink, configured by opts (see
// WithPayloadCodec).
func NewWriter(sink io.Writer, opts ...Option) *Writer {
	w := &Writer{sink: sink}
	_ = options.Apply(w, opts...) // every Option on Writer is currently infallible

	return w
}

// SetTaxonomy flushes t into upcoming envelope headers and enables
// name→ordinal substitution on subsequent WriteField calls. Passing nil
// clears the active taxonomy.
func (w *Writer) SetTaxonomy(t *taxonomy.Taxonomy) {
	w.tax = t
}

// WriteEnvelopeHeader writes the 8-byte envelope header: processing
// directives byte, schema version byte, big-endian i16 taxonomy id,
// big-endian i32 total size.
func (w *Writer) WriteEnvelopeHeader(processingDirectives, schemaVersion byte, taxonomyID taxonomy.ID, totalSize int32) error {
	if w.poisoned {
		return errs.ErrStreamPoisoned
	}

	var hdr [wire.EnvelopeHeaderSize]byte
	hdr[0] = processingDirectives
	hdr[1] = schemaVersion
	binary.BigEndian.PutUint16(hdr[2:4], uint16(taxonomyID))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(totalSize))

	if _, err := w.sink.Write(hdr[:]); err != nil {
		w.poisoned = true
		return wrapIOErr(err)
	}

	return nil
}

// WriteField emits one field: prefix byte, type id byte, ordinal (iff
// present), name length + UTF-8 name bytes (iff present), length-class
// bytes (iff the wire type is variable-size), then payload.
//
// When name is present, ordinal is absent, and a taxonomy is active that
// resolves name to an ordinal, WriteField substitutes the ordinal for the
// name (spec.md §9 leaves this substitution as a MAY; this writer always
// takes it, which is the direction of maximal compression and is the
// behavior Testable Property 6 exercises). When both name and ordinal are
// present and the taxonomy confirms they agree, the name is dropped the
// same way, per spec.md §9's resolution of that Open Question; when they
// disagree (or the taxonomy has no entry for name), both are written
// verbatim rather than silently preferring one.
func (w *Writer) WriteField(hasName bool, name string, hasOrdinal bool, ordinal int16, wireType wire.Type, payload []byte) error {
	if w.poisoned {
		return errs.ErrStreamPoisoned
	}

	if w.tax != nil {
		if hasName && !hasOrdinal {
			if resolved, ok := w.tax.Ordinal(name); ok {
				ordinal, hasOrdinal = resolved, true
				hasName, name = false, ""
			}
		} else if hasName && hasOrdinal {
			if resolved, ok := w.tax.Ordinal(name); ok && resolved == ordinal {
				hasName, name = false, ""
			}
		}
	}

	if hasName {
		if err := wire.ValidateName(name); err != nil {
			return err
		}
	}

	varClass := wire.VarNone
	if wire.IsVariable(wireType) {
		varClass = wire.ChooseVarClass(len(payload))
	}

	prefix := wire.Prefix{VarClass: varClass, HasName: hasName, HasOrdinal: hasOrdinal}

	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)

	buf.MustWrite([]byte{prefix.Pack(), byte(wireType)})

	if hasOrdinal {
		var ord [2]byte
		binary.BigEndian.PutUint16(ord[:], uint16(ordinal))
		buf.MustWrite(ord[:])
	}

	if hasName {
		buf.MustWrite(wire.AppendName(nil, name))
	}

	if varClass != wire.VarNone {
		lenBuf := make([]byte, varClass.LengthClassSize())
		putVarLength(lenBuf, len(payload))
		buf.MustWrite(lenBuf)
	}

	buf.MustWrite(payload)

	if _, err := w.sink.Write(buf.Bytes()); err != nil {
		w.poisoned = true
		return wrapIOErr(err)
	}

	return nil
}

// compressedField reports the same name/ordinal header as the FieldWriter
// it wraps, but a different wire type and payload: the compressed,
// extension-wrapped bytes PrepareFields produced in its place.
type compressedField struct {
	inner    FieldWriter
	wireType wire.Type
	payload  []byte
}

func (c compressedField) FieldName() (string, bool)   { return c.inner.FieldName() }
func (c compressedField) FieldOrdinal() (int16, bool) { return c.inner.FieldOrdinal() }
func (c compressedField) FieldWireType() wire.Type    { return c.wireType }
func (c compressedField) FieldPayloadLen() int        { return len(c.payload) }
func (c compressedField) Payload() []byte             { return c.payload }

// PrepareFields applies every codec registered via WithPayloadCodec to
// fields, compressing and re-wrapping each qualifying payload, and returns
// the result in the exact shape WriteFields will emit it in. A caller that
// computes an envelope's total size ahead of writing (envelope.
// WriteEnvelope) must size this returned slice rather than the original
// fields, so the computed total matches the compressed bytes WriteFields
// actually produces (Testable Property 2). With no codecs registered,
// PrepareFields returns fields unchanged.
func (w *Writer) PrepareFields(fields []FieldWriter) ([]FieldWriter, error) {
	if len(w.codecs) == 0 {
		return fields, nil
	}

	out := make([]FieldWriter, len(fields))
	for i, f := range fields {
		pc, ok := w.codecs[f.FieldWireType()]
		payload := f.Payload()
		if !ok || len(payload) < pc.minSize {
			out[i] = f
			continue
		}

		compressed, err := pc.codec.Compress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
		}

		wrapped := make([]byte, 1+len(compressed))
		wrapped[0] = byte(pc.algorithm)
		copy(wrapped[1:], compressed)

		out[i] = compressedField{inner: f, wireType: pc.extensionType, payload: wrapped}
	}

	return out, nil
}

// WriteFields writes every field in fields, in order, via WriteField,
// first routing them through PrepareFields so any registered payload
// codec applies.
func (w *Writer) WriteFields(fields []FieldWriter) error {
	prepared, err := w.PrepareFields(fields)
	if err != nil {
		return err
	}

	for _, f := range prepared {
		name, hasName := f.FieldName()
		ordinal, hasOrdinal := f.FieldOrdinal()
		if err := w.WriteField(hasName, name, hasOrdinal, ordinal, f.FieldWireType(), f.Payload()); err != nil {
			return err
		}
	}

	return nil
}

// EnvelopeComplete signals the end of the current envelope. It currently
// performs no buffering of its own, so it is a no-op beyond documenting
// the writer's contract; callers should still call it so a future
// buffered Writer variant has a well-defined hook.
func (w *Writer) EnvelopeComplete() error {
	return nil
}

// Flush passes through to the sink if it implements an explicit Flush
// method (e.g. bufio.Writer), otherwise it is a no-op.
func (w *Writer) Flush() error {
	if f, ok := w.sink.(interface{ Flush() error }); ok {
		return f.Flush()
	}

	return nil
}

// Close passes through to the sink if it implements io.Closer.
func (w *Writer) Close() error {
	if c, ok := w.sink.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

func putVarLength(dst []byte, n int) {
	switch len(dst) {
	case 1:
		dst[0] = byte(n)
	case 2:
		binary.BigEndian.PutUint16(dst, uint16(n))
	case 4:
		binary.BigEndian.PutUint32(dst, uint32(n))
	}
}

func wrapIOErr(err error) error {
	return fmt.Errorf("%w: %w", errs.ErrIO, err)
}

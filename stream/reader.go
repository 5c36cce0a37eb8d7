package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fudgemsg/fudge-go/compress"
	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/internal/hash"
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/fudgemsg/fudge-go/wire"
)

// PayloadCodec tells a Reader how to reverse one payload-compression
// extension wrapper (SPEC_FULL.md §C): ExtensionType is the user-extension
// wire type id the wrapped field carries on the wire, OriginalType is the
// wire type to report once the wrapper is stripped, and Codec reverses
// the compression. A Reader with no PayloadCodec registered for an
// extension type id it encounters falls back to the default
// unrecognized-extension-type behavior (wire.UnknownValue), per spec.md
// §4.6 — the extension degrades gracefully rather than failing the read.
type PayloadCodec struct {
	ExtensionType wire.Type
	OriginalType  wire.Type
	Codec         compress.Codec
}

// frame tracks the number of payload bytes still unread at one nesting
// depth, mirroring the stack of "decoded-inner-size" pushed on entry to a
// sub-message.
type frame struct {
	remaining int
}

// Reader is a pull-based iterator over an in-memory Fudge byte stream: a
// sequence of back-to-back envelopes, or a single envelope's field section
// once positioned there by SkipSubMessage's caller.
//
// Reader is grounded on the decoders in this module's sibling packages,
// which work directly off a []byte rather than an io.Reader: Fudge
// envelopes carry their own exact size up front, so there is no streaming
// benefit to partial reads, and a byte-slice cursor keeps sub-message
// bookkeeping allocation-free.
type Reader struct {
	data     []byte
	pos      int
	stack    []frame
	poisoned bool
	tax      *taxonomy.Taxonomy
	resolver taxonomy.Resolver
	interner *hash.Interner
	codecs   map[wire.Type]PayloadCodec
}

// NewReader creates a Reader over data, positioned before the first
// envelope header. Field names decoded verbatim off the wire (as opposed
// to names resolved from a taxonomy, which are already interned there)
// are deduplicated through a per-Reader Interner, since a sub-message
// holding many fields that repeat the same explicit name is the common
// case for list/set/map encoding (see SPEC_FULL.md §D).
func NewReader(data []byte) *Reader {
	return &Reader{data: data, interner: hash.NewInterner()}
}

// SetResolver installs the taxonomy.Resolver used to look up the taxonomy
// named by each envelope's taxonomy id. Without a resolver, ordinal-only
// fields never resolve a name (absence is not an error, per contract).
func (r *Reader) SetResolver(resolver taxonomy.Resolver) {
	r.resolver = resolver
}

// SetPayloadCodecs installs the set of PayloadCodec values this Reader
// uses to reverse the payload-compression extension (SPEC_FULL.md §C).
// Calling it with no codecs is a no-op.
func (r *Reader) SetPayloadCodecs(codecs ...PayloadCodec) {
	if len(codecs) == 0 {
		return
	}
	if r.codecs == nil {
		r.codecs = make(map[wire.Type]PayloadCodec, len(codecs))
	}
	for _, c := range codecs {
		r.codecs[c.ExtensionType] = c
	}
}

// HasNext reports whether a subsequent call to Next has more to read: the
// current depth still has unread bytes, or there is at least one more
// envelope in the underlying buffer.
func (r *Reader) HasNext() bool {
	if len(r.stack) > 1 {
		return true // a pending KindSubMessageEnd is always next
	}
	if len(r.stack) == 1 && r.stack[0].remaining > 0 {
		return true
	}

	return r.pos < len(r.data)
}

// Next advances the state machine and returns the next Element. It returns
// io.EOF once the underlying buffer is exhausted at depth 0 between
// envelopes.
func (r *Reader) Next() (Element, error) {
	if r.poisoned {
		return Element{}, errs.ErrStreamPoisoned
	}

	el, err := r.next()
	if err != nil && err != io.EOF {
		r.poisoned = true
	}

	return el, err
}

func (r *Reader) next() (Element, error) {
	for len(r.stack) == 1 && r.stack[0].remaining == 0 {
		// Depth 0 ending returns silently to the initial state (spec's
		// state diagram has no SUBMESSAGE_FIELD_END at depth 0); either
		// another envelope follows or the stream is exhausted.
		r.stack = r.stack[:0]
		if r.pos >= len(r.data) {
			return Element{}, io.EOF
		}

		return r.readEnvelopeHeader()
	}

	if len(r.stack) == 0 {
		return r.readEnvelopeHeader()
	}

	top := &r.stack[len(r.stack)-1]
	if top.remaining == 0 {
		r.stack = r.stack[:len(r.stack)-1]
		return Element{Kind: KindSubMessageEnd, Depth: len(r.stack) - 1}, nil
	}

	return r.readField(top)
}

func (r *Reader) readEnvelopeHeader() (Element, error) {
	if r.pos+wire.EnvelopeHeaderSize > len(r.data) {
		return Element{}, errs.ErrTruncated
	}

	hdr := r.data[r.pos : r.pos+wire.EnvelopeHeaderSize]
	directives := hdr[0]
	version := hdr[1]
	taxID := taxonomy.ID(binary.BigEndian.Uint16(hdr[2:4]))
	totalSize := int32(binary.BigEndian.Uint32(hdr[4:8]))
	r.pos += wire.EnvelopeHeaderSize

	fieldsLen := int(totalSize) - wire.EnvelopeHeaderSize
	if fieldsLen < 0 || r.pos+fieldsLen > len(r.data) {
		return Element{}, errs.ErrEnvelopeSizeMismatch
	}

	r.tax = nil
	if r.resolver != nil {
		r.tax, _ = r.resolver.Resolve(taxID)
	}

	r.stack = append(r.stack, frame{remaining: fieldsLen})

	return Element{
		Kind:                 KindEnvelope,
		ProcessingDirectives: directives,
		SchemaVersion:        version,
		TaxonomyID:           taxID,
		EnvelopeSize:         totalSize,
	}, nil
}

func (r *Reader) readField(top *frame) (Element, error) {
	start := r.pos

	if r.pos >= len(r.data) {
		return Element{}, errs.ErrTruncated
	}
	prefixByte := r.data[r.pos]
	r.pos++

	prefix, err := wire.UnpackPrefix(prefixByte)
	if err != nil {
		return Element{}, err
	}

	if r.pos >= len(r.data) {
		return Element{}, errs.ErrTruncated
	}
	wireType := wire.Type(r.data[r.pos])
	r.pos++

	var ordinal int16
	hasOrdinal := prefix.HasOrdinal
	if hasOrdinal {
		if r.pos+2 > len(r.data) {
			return Element{}, errs.ErrTruncated
		}
		ordinal = int16(binary.BigEndian.Uint16(r.data[r.pos : r.pos+2]))
		r.pos += 2
	}

	var name string
	hasName := prefix.HasName
	if hasName {
		if r.pos >= len(r.data) {
			return Element{}, errs.ErrTruncated
		}
		nameLen := int(r.data[r.pos])
		r.pos++
		name, r.pos, err = wire.ReadString(r.data, r.pos, nameLen)
		if err != nil {
			return Element{}, err
		}
		name = r.interner.Intern(name)
	} else if hasOrdinal && r.tax != nil {
		if resolved, ok := r.tax.Name(ordinal); ok {
			name, hasName = resolved, true
		}
	}

	payloadLen, err := r.payloadLength(prefix, wireType)
	if err != nil {
		return Element{}, err
	}

	if r.pos+payloadLen > len(r.data) {
		return Element{}, errs.ErrPayloadOverrun
	}

	consumed := (r.pos + payloadLen) - start
	if consumed > top.remaining {
		return Element{}, errs.ErrPayloadOverrun
	}

	if wireType == wire.TypeSubMessage {
		top.remaining -= consumed
		depth := len(r.stack) - 1
		r.stack = append(r.stack, frame{remaining: payloadLen})

		return Element{
			Kind:       KindSubMessageStart,
			HasName:    hasName,
			Name:       name,
			HasOrdinal: hasOrdinal,
			Ordinal:    ordinal,
			WireType:   wireType,
			Depth:      depth,
		}, nil
	}

	payload := r.data[r.pos : r.pos+payloadLen]
	r.pos += payloadLen
	top.remaining -= consumed

	if pc, ok := r.codecs[wireType]; ok {
		decoded, err := r.decompressPayload(pc, payload)
		if err != nil {
			return Element{}, err
		}
		wireType = pc.OriginalType
		payload = decoded
	}

	return Element{
		Kind:       KindField,
		HasName:    hasName,
		Name:       name,
		HasOrdinal: hasOrdinal,
		Ordinal:    ordinal,
		WireType:   wireType,
		Payload:    payload,
		Depth:      len(r.stack) - 1,
	}, nil
}

// decompressPayload reverses one payload-compression extension wrapper:
// the leading compress.CompressionType byte is dropped, and the remaining
// bytes are handed to pc.Codec for decompression.
func (r *Reader) decompressPayload(pc PayloadCodec, wrapped []byte) ([]byte, error) {
	if len(wrapped) < 1 {
		return nil, fmt.Errorf("%w: wrapped payload missing algorithm byte", errs.ErrCompression)
	}

	decoded, err := pc.Codec.Decompress(wrapped[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}

	return decoded, nil
}

// payloadLength determines how many payload bytes follow the header
// already consumed for this field, per the prefix's variable-size class
// or, for fixed types, their FixedSize (fixed byte arrays included).
func (r *Reader) payloadLength(prefix wire.Prefix, wireType wire.Type) (int, error) {
	if wire.IsVariable(wireType) {
		n := prefix.VarClass.LengthClassSize()
		if n == 0 {
			return 0, errs.ErrInvalidLengthClass
		}
		if r.pos+n > len(r.data) {
			return 0, errs.ErrTruncated
		}
		length := readVarLength(r.data[r.pos:r.pos+n], n)
		r.pos += n

		return length, nil
	}

	if size, ok := wire.FixedSize(wireType); ok {
		return size, nil
	}

	return 0, errs.ErrUnregisteredType
}

// SkipSubMessage consumes the bytes of the sub-message most recently
// entered via KindSubMessageStart without decoding its fields, and returns
// a Reader scoped to exactly those bytes for the caller to parse later (or
// never, if the caller only wanted to skip it).
func (r *Reader) SkipSubMessage() (*Reader, error) {
	if len(r.stack) == 0 {
		return nil, errs.ErrTruncated
	}

	top := &r.stack[len(r.stack)-1]
	n := top.remaining
	if r.pos+n > len(r.data) {
		return nil, errs.ErrPayloadOverrun
	}

	sub := NewReader(r.data[r.pos : r.pos+n])
	sub.tax = r.tax
	sub.resolver = r.resolver
	sub.interner = r.interner
	sub.codecs = r.codecs
	sub.stack = []frame{{remaining: n}}

	r.pos += n
	top.remaining = 0

	return sub, nil
}

func readVarLength(b []byte, n int) int {
	switch n {
	case 1:
		return int(b[0])
	case 2:
		return int(binary.BigEndian.Uint16(b))
	case 4:
		return int(binary.BigEndian.Uint32(b))
	default:
		return 0
	}
}

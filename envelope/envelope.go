// Package envelope is the whole-message convenience layer over stream and
// message (spec.md §4.7): WriteEnvelope sizes a message.Message once,
// emits its header, and writes every field in one call; ReadEnvelope
// drives a stream.Reader to completion at depth 0 and collects the
// result into a message.Message.
package envelope

import (
	"bytes"
	"io"

	"github.com/fudgemsg/fudge-go/compress"
	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/internal/options"
	"github.com/fudgemsg/fudge-go/message"
	"github.com/fudgemsg/fudge-go/stream"
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/fudgemsg/fudge-go/wire"
)

// Envelope pairs a Fudge envelope header with the message.Message it
// carries. ProcessingDirectives and SchemaVersion are typed byte and
// TaxonomyID is typed taxonomy.ID (a uint16) so their valid ranges
// (0..255, 0..255 and the full 16-bit id space respectively) are exactly
// the ranges the Go type permits; WithProcessingDirectives/WithSchemaVersion/
// WithTaxonomyID accept plain int so callers can pass an arbitrary literal
// and get ErrDirectivesOutOfRange/ErrVersionOutOfRange/ErrTaxonomyIDOutOfRange
// back instead of a silent wraparound.
type Envelope struct {
	ProcessingDirectives byte
	SchemaVersion        byte
	TaxonomyID           taxonomy.ID
	Message              *message.Message
}

// Config holds the options a Writer/Reader pair is built from.
type Config struct {
	directives   byte
	version      byte
	taxonomyID   taxonomy.ID
	taxonomy     *taxonomy.Taxonomy
	resolver     taxonomy.Resolver
	writerOpts   []stream.Option
	readerCodecs []stream.PayloadCodec
}

// Option configures a Config via WriteEnvelope or ReadEnvelope.
type Option = options.Option[*Config]

// WithProcessingDirectives sets the envelope's processing directives byte.
// n must fit in 0..255.
func WithProcessingDirectives(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 || n > 0xFF {
			return errs.ErrDirectivesOutOfRange
		}
		c.directives = byte(n)

		return nil
	})
}

// WithSchemaVersion sets the envelope's schema version byte. n must fit
// in 0..255.
func WithSchemaVersion(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 || n > 0xFF {
			return errs.ErrVersionOutOfRange
		}
		c.version = byte(n)

		return nil
	})
}

// WithTaxonomyID sets the envelope header's taxonomy id. n is accepted as
// the signed range -32768..32767 (the wire field is a plain 16-bit
// pattern; taxonomy.ID's own zero value, taxonomy.None, already means "no
// taxonomy" and needs no separate flag).
func WithTaxonomyID(n int) Option {
	return options.New(func(c *Config) error {
		if n < -32768 || n > 32767 {
			return errs.ErrTaxonomyIDOutOfRange
		}
		c.taxonomyID = taxonomy.ID(uint16(int16(n)))

		return nil
	})
}

// WithTaxonomy installs t as the active taxonomy on the Writer side:
// WriteEnvelope applies t's name->ordinal substitution to every top-level
// field before sizing and writing it, the same way message.Message.
// SetTaxonomy does for a single Message.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return options.NoError(func(c *Config) {
		c.taxonomy = t
	})
}

// WithResolver installs the taxonomy.Resolver ReadEnvelope uses to look up
// the taxonomy named by the envelope's taxonomy id. Without a resolver,
// ordinal-only fields are read back without their name filled in.
func WithResolver(r taxonomy.Resolver) Option {
	return options.NoError(func(c *Config) {
		c.resolver = r
	})
}

// WithPayloadCodec enables the optional payload-compression extension
// (SPEC_FULL.md §C) symmetrically on both sides of the envelope: WriteEnvelope
// compresses fields of wireType whose payload is at least minSize bytes
// using codec before sizing and writing them, and ReadEnvelope reverses the
// transformation transparently when it encounters the resulting
// extension-wrapped field. A reader built without this option (or without
// a matching algorithm) still decodes such a field, just as an opaque
// wire.UnknownValue rather than its original type, since the extension's
// wire type id is outside the standard range (spec.md §4.6).
func WithPayloadCodec(wireType wire.Type, algorithm compress.CompressionType, codec compress.Codec, minSize int) Option {
	return options.NoError(func(c *Config) {
		c.writerOpts = append(c.writerOpts, stream.WithPayloadCodec(wireType, algorithm, codec, minSize))
		c.readerCodecs = append(c.readerCodecs, stream.PayloadCodec{
			ExtensionType: stream.ExtensionTypeFor(algorithm),
			OriginalType:  wireType,
			Codec:         codec,
		})
	})
}

func newConfig(opts []Option) (*Config, error) {
	c := &Config{}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// WriteEnvelope serializes m as a complete envelope onto w: it applies m's
// active taxonomy (WithTaxonomy) and any registered payload codec
// (WithPayloadCodec) to get the exact wire shape of m's fields, sizes that
// shape once, emits the 8-byte header, writes every field, and calls
// EnvelopeComplete.
func WriteEnvelope(w io.Writer, m *message.Message, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	if cfg.taxonomy != nil {
		m.SetTaxonomy(cfg.taxonomy)
	}

	sw := stream.NewWriter(w, cfg.writerOpts...)
	sw.SetTaxonomy(cfg.taxonomy)

	fields := m.SubstitutedFields()
	fw := make([]stream.FieldWriter, len(fields))
	for i, f := range fields {
		fw[i] = f
	}

	prepared, err := sw.PrepareFields(fw)
	if err != nil {
		return err
	}

	sizers := make([]wire.FieldSizer, len(prepared))
	for i, f := range prepared {
		sizers[i] = f
	}
	total := wire.EnvelopeHeaderSize + wire.MessageSize(sizers)

	if err := sw.WriteEnvelopeHeader(cfg.directives, cfg.version, cfg.taxonomyID, int32(total)); err != nil {
		return err
	}

	if err := sw.WriteFields(prepared); err != nil {
		return err
	}

	return sw.EnvelopeComplete()
}

// Marshal builds the complete envelope bytes for m, per WriteEnvelope.
func Marshal(m *message.Message, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, m, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ReadEnvelope drives the Stream Reader over data to completion at depth 0
// and collects the result into an Envelope holding a fully materialized
// message.Message (built on message.NewEncoded + Materialize, so a nested
// sub-message field is indistinguishable from one built eagerly, per
// spec.md §4.9 Testable Property 7). data must hold exactly one envelope.
func ReadEnvelope(data []byte, opts ...Option) (*Envelope, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	enc, err := message.NewEncoded(data, cfg.resolver, cfg.readerCodecs...)
	if err != nil {
		return nil, err
	}

	m, err := enc.Materialize()
	if err != nil {
		return nil, err
	}

	return &Envelope{
		ProcessingDirectives: enc.ProcessingDirectives(),
		SchemaVersion:        enc.SchemaVersion(),
		TaxonomyID:           enc.TaxonomyID(),
		Message:              m,
	}, nil
}

// Unmarshal reads data (exactly one envelope) and returns just its
// message.Message, discarding the header fields. It is the common case
// when the header's own values are not needed by the caller.
func Unmarshal(data []byte, opts ...Option) (*message.Message, error) {
	env, err := ReadEnvelope(data, opts...)
	if err != nil {
		return nil, err
	}

	return env.Message, nil
}

// Package fudge provides a self-describing, hierarchical, tagged binary
// message format: a wire codec (see the wire, stream and envelope
// packages), an ordered-multimap message model (the message package),
// taxonomy-based name/ordinal compression (the taxonomy package), and an
// explicit object/message builder registry in place of runtime
// reflection (the builder package).
//
// # Basic usage
//
// Building and encoding a message:
//
//	m := fudge.NewMessage().
//	    Add(message.NewString("example").Named("name")).
//	    Add(message.NewInt(7).WithOrdinal(1))
//
//	data, err := fudge.Marshal(m, envelope.WithSchemaVersion(1))
//
// Decoding it back:
//
//	got, err := fudge.Unmarshal(data)
//
// # Package structure
//
// This package is a convenience layer over wire/stream/message/taxonomy/
// envelope/builder/dispatch: it wires together a process-wide default
// builder.Registry and taxonomy.Resolver (spec.md §9 "Global state": a
// default context is modeled as an explicit constructor argument
// defaulting to a singleton created on first use, never hidden module
// state with no accessor). Applications that need independent registries
// or resolvers — e.g. for test isolation — should use the builder,
// taxonomy and envelope packages directly instead of these defaults.
package fudge

import (
	"sync"

	"github.com/fudgemsg/fudge-go/builder"
	"github.com/fudgemsg/fudge-go/envelope"
	"github.com/fudgemsg/fudge-go/message"
	"github.com/fudgemsg/fudge-go/taxonomy"
)

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *builder.Registry

	defaultResolverOnce sync.Once
	defaultResolver     *taxonomy.MapResolver
)

// DefaultRegistry returns the process-wide builder.Registry, created on
// first use. Register types on it via RegisterBuilder, or build and use
// an independent *builder.Registry for test isolation.
func DefaultRegistry() *builder.Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = builder.New() })

	return defaultRegistry
}

// DefaultResolver returns the process-wide taxonomy.MapResolver, created
// on first use. Register taxonomies on it via RegisterTaxonomy.
func DefaultResolver() *taxonomy.MapResolver {
	defaultResolverOnce.Do(func() { defaultResolver = taxonomy.NewMapResolver() })

	return defaultResolver
}

// DefaultContext returns a fresh builder.Context over DefaultRegistry().
// A new Context is returned on every call rather than a shared singleton:
// a Context's cycle-detection stack is scoped to one top-level
// serialization (spec.md §5's "resets at envelope boundaries"), so
// sharing one across unrelated calls would let an object encoded by one
// caller collide, by pointer identity, with an unrelated object from
// another.
func DefaultContext() *builder.Context {
	return builder.NewContext(DefaultRegistry())
}

// NewMessage creates an empty, mutable message.Message.
func NewMessage() *message.Message { return message.New() }

// RegisterTaxonomy binds t to id on the process-wide default Resolver.
func RegisterTaxonomy(id taxonomy.ID, t *taxonomy.Taxonomy) {
	DefaultResolver().Register(id, t)
}

// RegisterBuilder registers sample's Go type on the process-wide default
// Registry; see builder.Registry.Register.
func RegisterBuilder(sample any, id builder.TypeID, supertypes []builder.TypeID, toMessage builder.ToMessageFunc, fromMessage builder.FromMessageFunc) {
	DefaultRegistry().Register(sample, id, supertypes, toMessage, fromMessage)
}

// ToMessage converts v into its message representation via the
// process-wide default Registry. Nested elements an application's own
// toMessage callback converts must call builder.ToMessage(ctx, ...)
// directly with the ctx they were given, not this function, so they
// share one serialization's cycle-detection stack.
func ToMessage(v any) (*message.Message, error) {
	return builder.ToMessage(DefaultContext(), v)
}

// FromMessage rebuilds a value of the type registered under id from m,
// via the process-wide default Registry.
func FromMessage(id builder.TypeID, m *message.Message) (any, error) {
	return builder.FromMessage(DefaultContext(), id, m)
}

// Marshal serializes m as a complete envelope; see envelope.Marshal.
func Marshal(m *message.Message, opts ...envelope.Option) ([]byte, error) {
	return envelope.Marshal(m, opts...)
}

// Unmarshal decodes data (exactly one envelope) into a fully
// materialized message.Message, resolving ordinal-only field names
// against the process-wide default Resolver unless opts supplies its own
// envelope.WithResolver.
func Unmarshal(data []byte, opts ...envelope.Option) (*message.Message, error) {
	allOpts := append([]envelope.Option{envelope.WithResolver(DefaultResolver())}, opts...)

	return envelope.Unmarshal(data, allOpts...)
}

// Package compress implements the optional payload-compression extension
// for large STRING, BYTE_ARRAY, and unknown-type field payloads.
//
// # Overview
//
// Standard Fudge encoding never compresses anything: a field's payload is
// written verbatim after its prefix and type byte. This package backs an
// opt-in extension (see SPEC_FULL.md §C) that a StreamWriter may apply to
// a single field above a configurable size threshold: the payload is
// compressed, tagged with a one-byte CompressionType header, and wrapped
// behind a user-extension wire type id (32 or above) rather than the
// field's original type. A StreamReader that does not recognize the
// extension type id falls back to treating the field as an opaque
// UnknownValue, same as any other unregistered extension type; a reader
// that does recognize it strips the header, decompresses, and hands the
// caller the original bytes reinterpreted as the original type.
//
// The extension is never applied unless a caller explicitly enables it.
// With it disabled, a StreamWriter's output is byte-for-byte identical to
// a standard Fudge encoder's, which keeps the canonical scenarios
// (spec.md's worked examples) reproducible regardless of configuration.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **NoOp** (CompressionNone)
//
//	codec := compress.NewNoOpCompressor()
//	out, _ := codec.Compress(data)  // returns data unchanged
//
// Use when the payload is already compressed or incompressible (e.g. it
// is itself a nested sub-message of mostly numeric fields).
//
// **Zstandard** (CompressionZstd)
//
// Best compression ratio of the three, at the cost of being the slowest
// to compress. Good for large text payloads that are encoded once and
// read many times.
//
//	Compression:   ~400 MB/s
//	Decompression: ~1000 MB/s
//	Memory:        ~2-4 MB compression, ~1-2 MB decompression
//
// **S2** (CompressionS2)
//
// A Snappy-family codec favoring speed over ratio. Good default for
// payloads written and read on a hot path.
//
//	Compression:   ~1000 MB/s
//	Decompression: ~2000 MB/s
//	Memory:        ~256KB compression, ~64KB decompression
//
// **LZ4** (CompressionLZ4)
//
// Fastest decompression of the three; moderate compression ratio.
//
//	Compression:   ~800 MB/s
//	Decompression: ~3000 MB/s
//	Memory:        ~64KB compression, ~16KB decompression
//
// # Selection Guide
//
// | Scenario                       | Recommended | Reason                       |
// |---------------------------------|-------------|-------------------------------|
// | Large text/BLOB fields, archival | Zstd        | best ratio                    |
// | Streaming writer, hot path       | S2 or LZ4   | low per-field latency         |
// | Read-dominated workloads         | LZ4         | fastest decompression         |
// | CPU-constrained writer            | None        | zero compression overhead     |
//
// # Thread Safety
//
// All Codec implementations are safe for concurrent use; GetCodec returns
// a shared instance per algorithm rather than allocating one per call.
//
// # Extending
//
// A caller with its own algorithm can implement Compressor/Decompressor
// directly and register a CompressionType value above the four built-in
// ones; the StreamWriter/StreamReader option that enables the extension
// accepts any Codec, not just the built-ins here.
package compress

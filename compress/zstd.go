package compress

// ZstdCompressor wraps field payloads with Zstandard compression.
//
// Zstd favors compression ratio over raw speed, which fits the extension's
// intended use: large STRING or BYTE_ARRAY payloads written once and read
// occasionally, where shrinking the envelope matters more than shaving a
// few nanoseconds off the write path.
//
// Performance characteristics:
//   - Compression: ~5-20 ns/byte (depending on compression level)
//   - Decompression: ~2-5 ns/byte
//   - Memory usage: moderate (pooled encoder/decoder, see zstd_pure.go)
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

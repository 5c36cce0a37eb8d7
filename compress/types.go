package compress

// CompressionType identifies the algorithm used to compress a payload that
// has been wrapped behind the compression extension's user-extension wire
// type id (see SPEC_FULL.md §C). It is carried as the first byte of the
// wrapped payload so a reader can select the matching Decompressor without
// any out-of-band signaling.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone means the payload was left untouched.
	CompressionZstd CompressionType = 0x2 // CompressionZstd means the payload was compressed with Zstandard.
	CompressionS2   CompressionType = 0x3 // CompressionS2 means the payload was compressed with S2.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 means the payload was compressed with LZ4.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

package wire

import (
	"unicode/utf8"

	"github.com/fudgemsg/fudge-go/errs"
)

// MaxNameLength is the largest encoded UTF-8 byte length a field name may
// have: names carry a single uint8 length prefix on the wire.
const MaxNameLength = 255

// EncodedLen returns the number of bytes s occupies on the wire, which for
// UTF-8 is simply its byte length — no intermediate transcoding is ever
// needed since Go strings are already UTF-8.
func EncodedLen(s string) int {
	return len(s)
}

// ValidateName checks that s fits in the single-byte name-length prefix and
// is valid UTF-8.
func ValidateName(s string) error {
	if len(s) > MaxNameLength {
		return errs.ErrNameTooLong
	}
	if !utf8.ValidString(s) {
		return errs.ErrInvalidUTF8
	}

	return nil
}

// AppendName appends a name's length byte and UTF-8 bytes to dst.
func AppendName(dst []byte, s string) []byte {
	dst = append(dst, byte(len(s)))
	dst = append(dst, s...)

	return dst
}

// ReadString decodes n bytes of raw UTF-8 payload from data starting at
// offset, validating the result, and returns the string together with the
// offset immediately past it.
func ReadString(data []byte, offset, n int) (string, int, error) {
	if offset+n > len(data) {
		return "", 0, errs.ErrPayloadOverrun
	}

	b := data[offset : offset+n]
	if !utf8.Valid(b) {
		return "", 0, errs.ErrInvalidUTF8
	}

	return string(b), offset + n, nil
}

// Package wire implements the closed set of Fudge primitive wire types, the
// field prefix bit layout, the UTF-8 codec used for names and STRING
// payloads, the exact-size calculator, and the field reducer that narrows
// integers and byte arrays to their tightest wire representation.
//
// Everything in this package is stateless and safe for concurrent use.
package wire

import "fmt"

// Type identifies a Fudge wire type by its reserved id byte. Ids 0..31 are
// reserved standard types; 32..255 are available for user extensions, which
// a reader with no registration for them decodes as opaque bytes.
type Type uint8

// Standard wire type ids, per the Fudge core specification.
const (
	TypeIndicator Type = 0
	TypeBoolean   Type = 1
	TypeByte      Type = 2
	TypeShort     Type = 3
	TypeInt       Type = 4
	TypeLong      Type = 5
	TypeByteArray Type = 6
	TypeShortArray Type = 7
	TypeIntArray  Type = 8
	TypeLongArray Type = 9
	TypeFloat     Type = 10
	TypeDouble    Type = 11
	TypeFloatArray  Type = 12
	TypeDoubleArray Type = 13
	TypeString    Type = 14
	TypeSubMessage Type = 15
	// 16 is unassigned in the standard set.
	TypeByteArray4   Type = 17
	TypeByteArray8   Type = 18
	TypeByteArray16  Type = 19
	TypeByteArray20  Type = 20
	TypeByteArray32  Type = 21
	TypeByteArray64  Type = 22
	TypeByteArray128 Type = 23
	TypeByteArray256 Type = 24
	TypeByteArray512 Type = 25
	TypeDate     Type = 26
	TypeTime     Type = 27
	TypeDateTime Type = 28
)

// FirstUserType is the first id available for user-extension wire types.
const FirstUserType = 32

// IsStandard reports whether id falls within the reserved 0..31 range.
func (t Type) IsStandard() bool {
	return t < FirstUserType
}

// FixedByteArrayLength returns the exact payload length mandated by one of
// the fixed-length byte array wire types, and whether t is one of them.
func (t Type) FixedByteArrayLength() (int, bool) {
	n, ok := fixedByteArrayLengths[t]
	return n, ok
}

var fixedByteArrayLengths = map[Type]int{
	TypeByteArray4:   4,
	TypeByteArray8:   8,
	TypeByteArray16:  16,
	TypeByteArray20:  20,
	TypeByteArray32:  32,
	TypeByteArray64:  64,
	TypeByteArray128: 128,
	TypeByteArray256: 256,
	TypeByteArray512: 512,
}

// byteArrayTypeForLength is the inverse of FixedByteArrayLength, used by the
// field reducer to pick the narrowest fixed-length variant for a given
// length, when one exists exactly.
var byteArrayTypeForLength = map[int]Type{
	4:   TypeByteArray4,
	8:   TypeByteArray8,
	16:  TypeByteArray16,
	20:  TypeByteArray20,
	32:  TypeByteArray32,
	64:  TypeByteArray64,
	128: TypeByteArray128,
	256: TypeByteArray256,
	512: TypeByteArray512,
}

// ByteArrayTypeForLength returns the fixed-length byte-array wire type whose
// payload is exactly n bytes, if one exists.
func ByteArrayTypeForLength(n int) (Type, bool) {
	t, ok := byteArrayTypeForLength[n]
	return t, ok
}

// info describes a standard wire type's fixed size (or variable-size
// marker) for the size calculator.
type info struct {
	name      string
	fixedSize int  // meaningful only when !variable
	variable  bool
}

var registry = map[Type]info{
	TypeIndicator:  {"indicator", 0, false},
	TypeBoolean:    {"boolean", 1, false},
	TypeByte:       {"byte", 1, false},
	TypeShort:      {"short", 2, false},
	TypeInt:        {"int", 4, false},
	TypeLong:       {"long", 8, false},
	TypeByteArray:  {"byte[]", 0, true},
	TypeShortArray: {"short[]", 0, true},
	TypeIntArray:   {"int[]", 0, true},
	TypeLongArray:  {"long[]", 0, true},
	TypeFloat:      {"float", 4, false},
	TypeDouble:     {"double", 8, false},
	TypeFloatArray:  {"float[]", 0, true},
	TypeDoubleArray: {"double[]", 0, true},
	TypeString:     {"string", 0, true},
	TypeSubMessage: {"message", 0, true},
	TypeDate:       {"date", 4, false},
	TypeTime:       {"time", 8, false},
	TypeDateTime:   {"datetime", 12, false},
}

func init() {
	for t, n := range fixedByteArrayLengths {
		registry[t] = info{name: fmt.Sprintf("byte[%d]", n), fixedSize: n, variable: false}
	}
}

// Lookup returns the registry entry for a standard type id. ok is false for
// unknown/user-extension ids, which callers must treat as opaque byte
// arrays rather than an error.
func Lookup(t Type) (name string, fixedSize int, variable bool, ok bool) {
	e, found := registry[t]
	if !found {
		return "", 0, false, false
	}

	return e.name, e.fixedSize, e.variable, true
}

// IsVariable reports whether t is a variable-size standard type. Unknown
// (user-extension) types are always treated as variable-size, since their
// payload length is only known from the prefix's length-class bytes.
func IsVariable(t Type) bool {
	e, ok := registry[t]
	if !ok {
		return true
	}

	return e.variable
}

// FixedSize returns the fixed encoded size of t, and whether t has one.
// Fixed-length byte array types (17..25) report their exact N here.
func FixedSize(t Type) (int, bool) {
	e, ok := registry[t]
	if !ok || e.variable {
		return 0, false
	}

	return e.fixedSize, true
}

// String implements fmt.Stringer for diagnostics and test failure messages.
func (t Type) String() string {
	if e, ok := registry[t]; ok {
		return e.name
	}
	if t.IsStandard() {
		return fmt.Sprintf("reserved(%d)", uint8(t))
	}

	return fmt.Sprintf("user(%d)", uint8(t))
}

// UnknownValue holds the opaque payload of a wire type id the reader has no
// registration for. Per the core's error taxonomy, encountering one during
// a read is not an error: the bytes are preserved verbatim so the value can
// round-trip even though its meaning is unknown to this process.
type UnknownValue struct {
	TypeID Type
	Bytes  []byte
}

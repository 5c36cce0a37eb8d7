package wire

import "github.com/fudgemsg/fudge-go/errs"

// VarClass identifies the width of the variable-size length prefix that
// follows a field's name (if any) for a variable-size wire type. The three
// non-zero classes are one-hot coded so that a canonical prefix byte can
// never claim two classes simultaneously.
type VarClass uint8

const (
	// VarNone marks a fixed-size field: no length-class bytes follow.
	VarNone VarClass = 0b000
	// Var1 is a 1-byte (uint8) length prefix, for payloads up to 255 bytes.
	Var1 VarClass = 0b001
	// Var2 is a 2-byte (uint16) length prefix, for payloads up to 32767 bytes.
	Var2 VarClass = 0b010
	// Var4 is a 4-byte (int32) length prefix, for larger payloads.
	Var4 VarClass = 0b100
)

// ChooseVarClass returns the narrowest length class whose width can
// represent length, per the field-prefix composition rule: ≤255 picks
// Var1, ≤32767 picks Var2, otherwise Var4.
func ChooseVarClass(length int) VarClass {
	switch {
	case length <= 255:
		return Var1
	case length <= 32767:
		return Var2
	default:
		return Var4
	}
}

// LengthClassSize returns the number of bytes used to encode a length value
// under the given class: 0 for VarNone, else 1, 2 or 4.
func (c VarClass) LengthClassSize() int {
	switch c {
	case Var1:
		return 1
	case Var2:
		return 2
	case Var4:
		return 4
	default:
		return 0
	}
}

// The field prefix byte bit layout, read MSB to LSB, is "0 V V V P N O R":
// bit7 is always 0, bits 6..4 hold the one-hot VarClass, bit3 (P) is
// reserved and always 0, bit2 (N) marks a name present, bit1 (O) marks an
// ordinal present, bit0 (R) is reserved and always 0.
//
// The source format's description of these bits is internally
// contradictory (see DESIGN.md) — P and VVV are
// described as overlapping the same bit space in places. This
// implementation resolves the ambiguity by keeping P and VVV fully
// disjoint, which is the only reading under which the composition rule in
// §4.1 ("VVV != 0 implies variable, and the width is chosen independently
// of N/O") stays self-consistent and round-trips cleanly; Testable
// Property 3 (field-prefix narrowness) is asserted directly against this
// layout in prefix_test.go rather than against the spec's illustrative hex
// literals.
const (
	prefixReservedBit = 0x01 // R, bit0
	prefixOrdinalBit  = 0x02 // O, bit1
	prefixNameBit     = 0x04 // N, bit2
	prefixPaddingBit  = 0x08 // P, bit3, always 0
	prefixVarShift    = 4
	prefixVarMask     = 0x07 // three bits after shifting
)

// Prefix is the decoded form of a field's prefix byte.
type Prefix struct {
	VarClass   VarClass
	HasName    bool
	HasOrdinal bool
}

// Pack encodes p into its canonical prefix byte.
func (p Prefix) Pack() byte {
	b := byte(p.VarClass&prefixVarMask) << prefixVarShift
	if p.HasName {
		b |= prefixNameBit
	}
	if p.HasOrdinal {
		b |= prefixOrdinalBit
	}

	return b
}

// UnpackPrefix decodes a prefix byte, rejecting any reserved bit set and
// any non-one-hot VarClass, both of which indicate a malformed or
// forward-incompatible stream.
func UnpackPrefix(b byte) (Prefix, error) {
	if b&prefixReservedBit != 0 || b&prefixPaddingBit != 0 {
		return Prefix{}, errs.ErrInvalidPrefix
	}

	vc := VarClass((b >> prefixVarShift) & prefixVarMask)
	switch vc {
	case VarNone, Var1, Var2, Var4:
	default:
		return Prefix{}, errs.ErrInvalidLengthClass
	}

	return Prefix{
		VarClass:   vc,
		HasName:    b&prefixNameBit != 0,
		HasOrdinal: b&prefixOrdinalBit != 0,
	}, nil
}

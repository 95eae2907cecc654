// Package xdrutil provides the byte-level primitives shared by every CDR
// dialect: endian swap of 2/4/8-byte words and a transfer-with-optional-swap
// helper. Nothing in this package knows about streams, alignment, or
// dialects — it is the leaf dependency every other cdr package builds on.
package xdrutil

import "fmt"

// ErrBadWidth is returned when a swap is attempted on a width other than
// 1, 2, 4, or 8 bytes.
var ErrBadWidth = fmt.Errorf("xdrutil: byte width must be 1, 2, 4, or 8")

// Swap2 reverses the two bytes of b in place.
func Swap2(b []byte) {
	_ = b[1]
	b[0], b[1] = b[1], b[0]
}

// Swap4 reverses the four bytes of b in place.
func Swap4(b []byte) {
	_ = b[3]
	b[0], b[3] = b[3], b[0]
	b[1], b[2] = b[2], b[1]
}

// Swap8 reverses the eight bytes of b in place.
func Swap8(b []byte) {
	_ = b[7]
	b[0], b[7] = b[7], b[0]
	b[1], b[6] = b[6], b[1]
	b[2], b[5] = b[5], b[2]
	b[3], b[4] = b[4], b[3]
}

// SwapN reverses b in place. len(b) must be 1, 2, 4, or 8; single-byte
// values are left untouched since they have no byte order. Any other width
// is ErrBadWidth.
func SwapN(b []byte) error {
	switch len(b) {
	case 1:
		return nil
	case 2:
		Swap2(b)
	case 4:
		Swap4(b)
	case 8:
		Swap8(b)
	default:
		return fmt.Errorf("xdrutil: swap width %d: %w", len(b), ErrBadWidth)
	}
	return nil
}

// TransferAndSwap copies src into dst and, if sw is true, reverses the bytes
// of dst afterward. dst and src must be the same length, one of 1, 2, 4, or
// 8. This is the building block every scalar read/write in the basic,
// xcdrv1, and xcdrv2 dialects funnels through: a plain copy in native order
// followed by a conditional swap when the stream's endianness disagrees
// with the host's.
func TransferAndSwap(dst, src []byte, sw bool) error {
	if len(dst) != len(src) {
		return fmt.Errorf("xdrutil: transfer length mismatch: dst=%d src=%d", len(dst), len(src))
	}
	copy(dst, src)
	if sw && len(dst) > 1 {
		return SwapN(dst)
	}
	if len(dst) != 1 && len(dst) != 2 && len(dst) != 4 && len(dst) != 8 {
		return fmt.Errorf("xdrutil: transfer width %d: %w", len(dst), ErrBadWidth)
	}
	return nil
}

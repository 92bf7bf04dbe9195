package cpu

import (
	"strings"
)

// BinaryString returns the lowest 'bits' bits of value as binary text,
// most significant bit first. Bits beyond the width of value read as zero.
func BinaryString(value uint64, bits int) string {
	if bits <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(bits)
	for n := bits - 1; n >= 0; n-- {
		if n < 64 && (value>>n)&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

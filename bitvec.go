package bloomstamp

import "math/bits"

const (
	// Bits is the number of bits in every filter.
	Bits = 2048
	// Bytes is the size of the raw bit array.
	Bytes = Bits / 8
)

// BitVector is a fixed 2048-bit array. Bit x is stored in byte x/8 at bit
// position x%8 (least significant bit first).
type BitVector [Bytes]byte

// Set sets the bit at x. x must be in [0, Bits).
func (bv *BitVector) Set(x uint32) {
	bv[x/8] |= 1 << (x % 8)
}

// Get reports whether the bit at x is set.
func (bv *BitVector) Get(x uint32) bool {
	return bv[x/8]&(1<<(x%8)) != 0
}

// OnesCount returns the number of set bits.
func (bv *BitVector) OnesCount() int {
	n := 0
	for _, b := range bv {
		n += bits.OnesCount8(b)
	}
	return n
}

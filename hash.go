package bloomstamp

import (
	"github.com/OneOfOne/xxhash"
)

// K is the number of bit indexes derived from each element.
const K = 30

// Indexes derives K raw (not yet reduced) indexes for d by enhanced double
// hashing over two xxHash32 values with seeds 0 and 1.
func Indexes(d []byte) [K]uint32 {
	var out [K]uint32
	x := xxhash.Checksum32S(d, 0)
	y := xxhash.Checksum32S(d, 1)
	out[0] = x
	for i := uint32(1); i < K; i++ {
		x += y
		y += i
		out[i] = x
	}
	return out
}

// Hashes returns the last raw index derived for d. It exists so other
// implementations can check their derivation against this one.
func Hashes(d []byte) uint32 {
	v := Indexes(d)
	return v[K-1]
}

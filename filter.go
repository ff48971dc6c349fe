// Package bloomstamp provides a fixed 2048-bit bloom filter and a
// saturation procedure which turns it into a verifiable work stamp.
package bloomstamp

import (
	"errors"
)

// ErrBadLength is returned when raw filter bytes are longer than Bytes.
var ErrBadLength = errors.New("bloomstamp: raw filter exceeds 256 bytes")

// Filter is a 2048-bit bloom filter. It is a plain value: assigning a
// Filter copies its bits, so copies never alias.
type Filter struct {
	bits BitVector
}

// New creates an empty filter.
func New() Filter {
	return Filter{}
}

// FromBytes creates a filter from its raw bit array. Input shorter than
// Bytes is zero padded.
func FromBytes(b []byte) (Filter, error) {
	var f Filter
	if len(b) > Bytes {
		return f, ErrBadLength
	}
	copy(f.bits[:], b)
	return f, nil
}

// Add puts a byte array to the filter.
func (f *Filter) Add(d []byte) {
	for _, x := range Indexes(d) {
		f.bits.Set(x % Bits)
	}
}

// AddString puts a string to the filter.
func (f *Filter) AddString(s string) {
	f.Add([]byte(s))
}

// Has checks that a byte array is possibly in the filter.
func (f *Filter) Has(d []byte) bool {
	for _, x := range Indexes(d) {
		if !f.bits.Get(x % Bits) {
			return false
		}
	}
	return true
}

// HasString checks that a string is possibly in the filter.
func (f *Filter) HasString(s string) bool {
	return f.Has([]byte(s))
}

// CountOnes returns the number of set bits.
func (f *Filter) CountOnes() int {
	return f.bits.OnesCount()
}

// Bytes returns a copy of the raw bit array.
func (f *Filter) Bytes() []byte {
	b := make([]byte, Bytes)
	copy(b, f.bits[:])
	return b
}

// Clone returns an independent copy of f.
func (f *Filter) Clone() Filter {
	return *f
}

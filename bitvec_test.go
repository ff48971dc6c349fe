package bloomstamp

import "testing"

func TestBitVector(t *testing.T) {
	var bv BitVector
	for _, x := range []uint32{0, 1, 2, 3, 8, 9, 10, 11, 12, 13, 14, 15, 2047} {
		bv.Set(x)
	}
	for _, x := range []uint32{0, 3, 8, 15, 2047} {
		if !bv.Get(x) {
			t.Errorf("bit %d should be set", x)
		}
	}
	for _, x := range []uint32{4, 5, 6, 7, 16, 2046} {
		if bv.Get(x) {
			t.Errorf("bit %d should not be set", x)
		}
	}
	if n := bv.OnesCount(); n != 13 {
		t.Errorf("unexpected ones: want=13 got=%d", n)
	}
	if bv[0] != 0x0f || bv[1] != 0xff || bv[255] != 0x80 {
		t.Errorf("unexpected layout: %02x %02x %02x", bv[0], bv[1], bv[255])
	}

	bv.Set(0)
	if n := bv.OnesCount(); n != 13 {
		t.Errorf("setting a set bit changed count: %d", n)
	}
}

func TestBitVectorFull(t *testing.T) {
	var bv BitVector
	for x := uint32(0); x < Bits; x++ {
		bv.Set(x)
	}
	if n := bv.OnesCount(); n != Bits {
		t.Errorf("unexpected ones: want=%d got=%d", Bits, n)
	}
}

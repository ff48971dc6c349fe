package bloomstamp

import (
	"strconv"
	"testing"

	"github.com/OneOfOne/xxhash"
)

func TestHashesKnown(t *testing.T) {
	for _, tc := range []struct {
		d    []byte
		want uint32
	}{
		{[]byte{}, 1188903019},
		{[]byte{0, 0, 0, 0}, 2676766701},
		{[]byte{1, 1, 1, 1}, 3925321782},
		{[]byte("hello"), 2751465978},
	} {
		got := Hashes(tc.d)
		if got != tc.want {
			t.Errorf("unexpected Hashes(%x): want=%d got=%d", tc.d, tc.want, got)
		}
	}
}

func TestIndexesFirst(t *testing.T) {
	for _, tc := range []struct {
		d    []byte
		want uint32
	}{
		{[]byte{}, 46947589},
		{[]byte{0, 0, 0, 0}, 148298089},
		{[]byte("hello"), 4211111929},
	} {
		got := Indexes(tc.d)[0]
		if got != tc.want {
			t.Errorf("unexpected first index of %x: want=%d got=%d", tc.d, tc.want, got)
		}
	}
}

func TestIndexesRecurrence(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := []byte(strconv.Itoa(i))
		v := Indexes(d)
		x := xxhash.Checksum32S(d, 0)
		y := xxhash.Checksum32S(d, 1)
		if v[0] != x {
			t.Fatalf("x[0] mismatch for %q: want=%d got=%d", d, x, v[0])
		}
		for n := 1; n < K; n++ {
			x += y
			y += uint32(n)
			if v[n] != x {
				t.Fatalf("x[%d] mismatch for %q: want=%d got=%d", n, d, x, v[n])
			}
		}
	}
}

func TestIndexesDeterministic(t *testing.T) {
	d := []byte("determinism")
	a := Indexes(d)
	b := Indexes(append([]byte(nil), d...))
	if a != b {
		t.Errorf("Indexes is not deterministic: %v %v", a, b)
	}
	if Hashes(d) != a[K-1] {
		t.Errorf("Hashes should be the last index")
	}
}

package rindex

import "testing"

func TestBitVector_SetGetBit(t *testing.T) {
	type bitTestCase struct {
		name string
		set  []int
		n    int
	}

	testTable := []bitTestCase{
		{name: "single word, single bit", set: []int{3}, n: 8},
		{name: "single word, many bits", set: []int{0, 1, 7, 63}, n: 64},
		{name: "spans two words", set: []int{0, 63, 64, 127}, n: 128},
		{name: "no bits set", set: nil, n: 40},
	}

	for _, tc := range testTable {
		t.Run(tc.name, func(t *testing.T) {
			bv := newBitVector(tc.n)
			want := make(map[int]bool, len(tc.set))
			for _, i := range tc.set {
				bv.setBit(i, true)
				want[i] = true
			}

			for i := 0; i < tc.n; i++ {
				if got := bv.getBit(i); got != want[i] {
					t.Errorf("getBit(%d) = %v, want %v", i, got, want[i])
				}
			}
		})
	}
}

func TestBitVector_SetBitFalseClears(t *testing.T) {
	bv := newBitVector(10)
	bv.setBit(4, true)
	bv.setBit(4, false)
	if bv.getBit(4) {
		t.Errorf("getBit(4) = true after clearing, want false")
	}
}

func TestBitVector_OutOfBoundsPanics(t *testing.T) {
	bv := newBitVector(8)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("getBit(8) did not panic on an 8-bit vector")
		}
	}()
	bv.getBit(8)
}

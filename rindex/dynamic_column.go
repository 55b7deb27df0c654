package rindex

import "fmt"

// dynamicColumn is the mutable counterpart to column, used by the
// deterministic splitter to maintain P' and Q'. It supports set,
// pushBack, rank1, select1, and at, with the same 1-indexed select1
// convention as column.
//
// No corpus repo ships a dynamic succinct bitvector at single-bit
// granularity (search/bwt's rsaBitVector is immutable-after-build); see
// DESIGN.md. This type keeps the same packed-word bitVector layout for
// storage and layers a sorted position list on top for rank/select.
type dynamicColumn struct {
	bv   bitVector
	ones []int // sorted, 0-indexed positions of set bits
}

// newDynamicColumnFromColumn copies a finished static column into a
// dynamic one, bit by bit via pushBack, exactly the way the
// deterministic splitter's initialize() copies P and Q into P' and Q'.
func newDynamicColumnFromColumn(c column) *dynamicColumn {
	d := &dynamicColumn{bv: newBitVector(0)}
	for i := 0; i < c.size(); i++ {
		d.pushBack(c.at(i))
	}
	return d
}

func (d *dynamicColumn) pushBack(bit bool) {
	grown := newBitVector(d.bv.numberOfBits + 1)
	copy(grown.words, d.bv.words)
	d.bv = grown
	pos := d.bv.numberOfBits - 1
	if bit {
		d.bv.setBit(pos, true)
		d.ones = append(d.ones, pos)
	}
}

func (d *dynamicColumn) len() int {
	return d.bv.len()
}

func (d *dynamicColumn) at(i int) bool {
	return d.bv.getBit(i)
}

// set sets the bit at i. Setting an already-set bit is a no-op.
func (d *dynamicColumn) set(i int, bit bool) {
	if d.bv.getBit(i) == bit {
		return
	}
	d.bv.setBit(i, bit)
	pos := insertionPoint(d.ones, i)
	if bit {
		d.ones = append(d.ones, 0)
		copy(d.ones[pos+1:], d.ones[pos:])
		d.ones[pos] = i
	} else {
		d.ones = append(d.ones[:pos], d.ones[pos+1:]...)
	}
}

// rank1 returns the number of set bits in [0, i).
func (d *dynamicColumn) rank1(i int) int {
	return insertionPoint(d.ones, i)
}

// select1 returns the position of the m-th set bit, 1-indexed.
func (d *dynamicColumn) select1(m int) int {
	if m < 1 || m > len(d.ones) {
		panic(fmt.Sprintf("dynamicColumn: select1(%d) out of range for %d set bits", m, len(d.ones)))
	}
	return d.ones[m-1]
}

func (d *dynamicColumn) bitsSet() int {
	return len(d.ones)
}

// clone returns an independent copy, so a splitter's initial snapshot
// can be rebuilt from without being mutated.
func (d *dynamicColumn) clone() *dynamicColumn {
	words := make([]uint64, len(d.bv.words))
	copy(words, d.bv.words)
	ones := make([]int, len(d.ones))
	copy(ones, d.ones)
	return &dynamicColumn{
		bv:   bitVector{words: words, numberOfBits: d.bv.numberOfBits},
		ones: ones,
	}
}

// toColumn freezes the dynamic column into an immutable one, reading
// off its set bits via select1 the way deterministic.hpp's build()
// copies P_prime into the returned static bitvector.
func (d *dynamicColumn) toColumn() column {
	bv := newBitVector(d.len())
	for _, pos := range d.ones {
		bv.setBit(pos, true)
	}
	return newColumn(bv)
}

// insertionPoint returns the number of elements of the sorted slice
// ones that are strictly less than i, i.e. the index at which i would
// be inserted to keep ones sorted.
func insertionPoint(ones []int, i int) int {
	lo, hi := 0, len(ones)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if ones[mid] < i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

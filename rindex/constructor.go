package rindex

import "io"

// constructor is the base construction result: the immutable P and Q
// run-head columns and the FL table that bridges them. Both splitters
// build on top of an already-built constructor; neither mutates it.
//
// Grounded on search/bwt/bwt.go's New: a single pass over the
// head/length streams builds the run metadata, then the derived
// structures (here, P, Q and the FL table) are built from it in one
// shot rather than incrementally.
type constructor struct {
	table flTable
	p     column
	q     column
}

// newConstructor reads the paired head/length streams once and builds
// P, Q, and the FL table.
func newConstructor(heads io.Reader, lengths io.Reader) (*constructor, error) {
	chars, lens, err := decodeRuns(heads, lengths)
	if err != nil {
		return nil, err
	}

	table, err := newFLTableFromRuns(chars, lens)
	if err != nil {
		return nil, err
	}

	p := newColumn(buildRunHeadMask(table.size(), lens))
	q := newColumn(buildSortedRunHeadMask(chars, lens))

	return &constructor{table: table, p: p, q: q}, nil
}

// find returns the absolute L-position that FL maps the absolute
// F-position q to: locate q's Q-run and offset, step the FL table
// from there, then translate the result back to an absolute position
// via Q, since FL's result is a run/offset in the table's F-order
// numbering.
func (c *constructor) find(q int) int {
	k, kPos := c.q.predecessor(q)
	d := q - kPos

	k2, d2 := c.table.FL(k, d)

	return c.q.getIdx(k2, d2)
}

func (c *constructor) size() int { return c.table.size() }
func (c *constructor) runs() int { return c.table.runs() }

// buildRunHeadMask sets a bit at the start of every run, in L-order —
// this is P.
func buildRunHeadMask(n int, lens []int) bitVector {
	bv := newBitVector(n)
	pos := 0
	for _, length := range lens {
		bv.setBit(pos, true)
		pos += length
	}
	return bv
}

// buildSortedRunHeadMask rebuilds Q by walking characters in ascending
// order and, for each, emitting every L-order run of that character in
// turn — the same subdivision the FL table itself uses, so a Q-run
// index can be fed straight into flTable.FL.
func buildSortedRunHeadMask(chars []byte, lens []int) bitVector {
	n := 0
	for _, length := range lens {
		n += length
	}

	charRuns := make([][]int, 256)
	for i, c := range chars {
		charRuns[c] = append(charRuns[c], lens[i])
	}

	bv := newBitVector(n)
	pos := 0
	for c := 0; c < 256; c++ {
		for _, length := range charRuns[c] {
			bv.setBit(pos, true)
			pos += length
		}
	}
	return bv
}

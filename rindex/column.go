package rindex

import (
	"fmt"
	"math/bits"
)

// column wraps a bitVector with rank1/select1 support: immutable after
// construction, representing either the L-column run-mask P or the
// F-column run-mask Q.
//
// select1 is 1-indexed: select1(1) is the position of the first set
// bit. rank1(i) is the number of set bits in [0, i).
type column struct {
	bv bitVector

	totalOnes int

	// Jacobson rank, grounded on search/bwt/rsa_bitvector.go.
	chunks              []rankChunk
	subChunksPerChunk   int
	bitsPerChunk        int
	bitsPerSubChunk     int

	// select1 support: the 1-indexed position of the m-th set bit is
	// onePositions[m-1].
	onePositions []int
}

type rankChunk struct {
	subChunks          []rankSubChunk
	onesCumulativeRank int
}

type rankSubChunk struct {
	onesCumulativeRank int
}

// newColumn builds the rank/select support structures for bv. The
// column keeps bv's word storage without copying it, so bv must not be
// modified afterwards.
func newColumn(bv bitVector) column {
	chunks, subChunksPerChunk, bitsPerSubChunk, totalOnes := buildJacobsonRank(bv)
	ones := buildOnePositions(bv)

	return column{
		bv:                bv,
		totalOnes:         totalOnes,
		chunks:            chunks,
		subChunksPerChunk: subChunksPerChunk,
		bitsPerChunk:      subChunksPerChunk * bitsPerSubChunk,
		bitsPerSubChunk:   bitsPerSubChunk,
		onePositions:      ones,
	}
}

func (c column) size() int {
	return c.bv.len()
}

func (c column) bitsSet() int {
	return c.totalOnes
}

func (c column) at(i int) bool {
	return c.bv.getBit(i)
}

// rank1 returns the number of set bits in [0, i).
func (c column) rank1(i int) int {
	if i == c.bv.len() {
		return c.totalOnes
	}

	chunkPos := i / c.bitsPerChunk
	chunk := c.chunks[chunkPos]

	subChunkPos := (i % c.bitsPerChunk) / c.bitsPerSubChunk
	subChunk := chunk.subChunks[subChunkPos]

	bitOffset := i % c.bitsPerSubChunk
	word := c.bv.getWord(chunkPos*c.subChunksPerChunk + subChunkPos)

	remaining := word >> uint(c.bitsPerSubChunk-bitOffset)
	return chunk.onesCumulativeRank + subChunk.onesCumulativeRank + bits.OnesCount64(remaining)
}

// select1 returns the position of the m-th set bit, 1-indexed.
func (c column) select1(m int) int {
	if m < 1 || m > c.totalOnes {
		panic(fmt.Sprintf("column: select1(%d) out of range for %d set bits", m, c.totalOnes))
	}
	return c.onePositions[m-1]
}

// getIdx returns the absolute position of the d-th character inside
// the 0-indexed k-th run.
func (c column) getIdx(k, d int) int {
	return c.select1(k+1) + d
}

// predecessor returns the run index and absolute position of the last
// set bit at or before i. Requires at least one set bit in [0, i].
func (c column) predecessor(i int) (runIndex, pos int) {
	rank := c.rank1(i + 1)
	if rank == 0 {
		panic(fmt.Sprintf("column: predecessor(%d) called with no set bit in range", i))
	}
	return rank - 1, c.select1(rank)
}

// buildJacobsonRank implements the Jacobson rank structure described in
// search/bwt/rsa_bitvector.go: groups of sub-chunks, each sub-chunk a
// single machine word, each level storing its cumulative rank relative
// to its parent.
func buildJacobsonRank(bv bitVector) (chunks []rankChunk, subChunksPerChunk, bitsPerSubChunk, totalRank int) {
	subChunksPerChunk = 4

	chunkCumulativeRank := 0
	subChunkCumulativeRank := 0

	var currSubChunks []rankSubChunk
	numWords := len(bv.words)
	for i := 0; i < numWords; i++ {
		if len(currSubChunks) == subChunksPerChunk {
			chunks = append(chunks, rankChunk{
				subChunks:          currSubChunks,
				onesCumulativeRank: chunkCumulativeRank,
			})
			chunkCumulativeRank += subChunkCumulativeRank
			currSubChunks = nil
			subChunkCumulativeRank = 0
		}
		currSubChunks = append(currSubChunks, rankSubChunk{onesCumulativeRank: subChunkCumulativeRank})

		onesCount := bits.OnesCount64(bv.getWord(i))
		subChunkCumulativeRank += onesCount
		totalRank += onesCount
	}

	if currSubChunks != nil {
		chunks = append(chunks, rankChunk{
			subChunks:          currSubChunks,
			onesCumulativeRank: chunkCumulativeRank,
		})
	}

	return chunks, subChunksPerChunk, wordSize, totalRank
}

func buildOnePositions(bv bitVector) []int {
	var ones []int
	for i := 0; i < bv.len(); i++ {
		if bv.getBit(i) {
			ones = append(ones, i)
		}
	}
	return ones
}

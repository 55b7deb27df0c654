package rindex

import "math/rand"

// randomizedSeed is the fixed seed used by the randomized splitter, so
// runs are reproducible by default.
const randomizedSeed = 23

// randomizedSplitter implements the randomized fractional-cascading
// split strategy: each P-run-head is independently copied into Q with
// probability 1/ratio, then every newly copied position's find()-image
// is fed back through the same coin flip, repeating until a round makes
// no insert at all.
//
// Grounded on original_source/include/construction/randomized.hpp,
// ported directly, including its reuse of find() on positions drawn
// from either side — find() is a position map over [0, n) and does not
// care which bitvector a position was discovered from.
type randomizedSplitter struct {
	base *constructor
}

func newRandomizedSplitter(base *constructor) *randomizedSplitter {
	return &randomizedSplitter{base: base}
}

// build runs the randomized split loop with the given ratio (copy
// probability 1/ratio) and seed, returning the resulting P' as an
// immutable column and the number of insert calls made, including
// those whose position was already set in Q'.
func (s *randomizedSplitter) build(ratio int, seed int64) (column, int) {
	if ratio < 1 {
		panic("rindex: randomized split ratio must be at least 1")
	}

	n := s.base.p.size()
	p := 1.0 / float64(ratio)
	rng := rand.New(rand.NewSource(seed))

	pPrime := newDynamicColumnFromColumn(s.base.p)
	qPrime := newDynamicColumnFromColumn(s.base.q)

	count := 0
	var insertedPositions []int
	insert := func(posQ int) {
		posP := s.base.find(posQ)
		insertedPositions = append(insertedPositions, posP)
		count++
		if !qPrime.at(posQ) {
			qPrime.set(posQ, true)
			pPrime.set(posP, true)
		}
	}

	for i := 0; i < n; i++ {
		if s.base.p.at(i) && rng.Float64() < p {
			insert(i)
		}
	}

	for len(insertedPositions) > 0 {
		lastInserted := insertedPositions
		insertedPositions = nil

		for _, pos := range lastInserted {
			if rng.Float64() < p {
				insert(pos)
			}
		}
	}

	return pPrime.toColumn(), count
}

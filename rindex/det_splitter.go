package rindex

import (
	"bufio"
	"io"
	"math"
)

// deterministicSplitter implements the Nishimoto-Tabei (ICALP'21) run
// splitting strategy: repeatedly split the heaviest Q-run until every
// Q-run covers fewer than 2d P-run-heads, guaranteeing a single FL hop
// never scans more than 2d-1 runs.
//
// Grounded on original_source/include/construction/deterministic.hpp,
// ported field-for-field: a dynamic P'/Q' pair seeded from the base
// constructor's immutable P/Q, and a max-heap of Q-run weights keyed by
// the Q-run's head position (not its run index — the heap's index
// space is absolute bitvector positions throughout).
type deterministicSplitter struct {
	base *constructor

	initP       *dynamicColumn
	initQ       *dynamicColumn
	initWeights *indexedHeap
}

// newDeterministicSplitter builds the initial P'/Q' snapshot and
// weight heap from an already-built constructor.
func newDeterministicSplitter(base *constructor) *deterministicSplitter {
	s := &deterministicSplitter{base: base}
	s.initialize()
	return s
}

func (s *deterministicSplitter) initialize() {
	n := s.base.p.size()
	tableBound := int(math.Ceil(float64(s.base.table.runs()) * 1.5))

	pPrime := newDynamicColumnFromColumn(s.base.p)
	qPrime := newDynamicColumnFromColumn(s.base.q)
	weights := newIndexedHeap(tableBound)

	runWeight := 1
	lastRunHead := 0

	for i := 1; i < n; i++ {
		if s.base.q.at(i) {
			weights.push(lastRunHead, runWeight)
			runWeight = 0
			lastRunHead = i
		}
		if s.base.p.at(i) {
			runWeight++
		}
	}
	weights.push(lastRunHead, runWeight)

	s.initP = pPrime
	s.initQ = qPrime
	s.initWeights = weights
}

// splitDebugHook, when non-nil, is called once per split with the
// number of splits so far, the base run count plus that number, and
// the heaviest remaining weight, used only by tests and the CLI's
// -debug flag.
type splitDebugHook func(count, runs, maxWeight int)

// build runs the split loop until the heaviest Q-run covers fewer
// than 2d P-run-heads, and returns the resulting P' as an immutable
// column.
func (s *deterministicSplitter) build(d int, onSplit splitDebugHook) column {
	if d < 2 {
		panic("rindex: deterministic split bound d must be at least 2")
	}

	pPrime := s.initP.clone()
	qPrime := s.initQ.clone()
	weights := s.initWeights.clone()

	count := 0
	maxWeight, maxIndex := weights.getMax()

	for maxWeight >= 2*d {
		count++

		s.splitStep(pPrime, qPrime, weights, d, maxWeight, maxIndex)

		maxWeight, maxIndex = weights.getMax()

		if onSplit != nil {
			onSplit(count, s.base.table.runs()+count, maxWeight)
		}
	}

	return pPrime.toColumn()
}

// splitStep performs a single split of the Q-run at maxIndex (the
// current heaviest, with weight maxWeight) against bound d, mutating
// pPrime, qPrime, and weights in place.
//
// Both halves are idempotent: a q_split position already present in
// qPrime (reached through an earlier split's cascade) skips the
// demote/push, and a p_split position already present in pPrime skips
// the set/promote, so repeating the same split is a no-op rather than
// a double-counted weight or a panic out of weights.push on a
// duplicate index.
func (s *deterministicSplitter) splitStep(pPrime, qPrime *dynamicColumn, weights *indexedHeap, d, maxWeight, maxIndex int) {
	firstPRun := pPrime.rank1(maxIndex)
	qInsertPos := pPrime.select1(firstPRun + d)

	if !qPrime.at(qInsertPos) {
		qPrime.set(qInsertPos, true)
		weights.demote(maxIndex, d)
		weights.push(qInsertPos, maxWeight-d)
	}

	pInsertPos := s.base.find(qInsertPos)
	if !pPrime.at(pInsertPos) {
		pPrime.set(pInsertPos, true)

		qPredRun := qPrime.rank1(pInsertPos+1) - 1
		qPredIdx := qPrime.select1(qPredRun + 1)
		weights.promote(qPredIdx, weights.getWeight(qPredIdx)+1)
	}
}

// serialize writes the full deterministic-splitter state, the
// `.d_construct` format: the base constructor, then the initial P',
// Q', and weight heap snapshot, so build(d) can be re-run with a
// different d without re-reading the BWT.
func (s *deterministicSplitter) serialize(w io.Writer) error {
	if err := serializeConstructor(w, s.base); err != nil {
		return err
	}
	if err := writeBitVector(w, s.initP.bv); err != nil {
		return err
	}
	if err := writeBitVector(w, s.initQ.bv); err != nil {
		return err
	}
	return writeHeap(w, s.initWeights)
}

func deserializeDeterministicSplitter(r io.Reader) (*deterministicSplitter, error) {
	r = bufio.NewReader(r)

	base, err := deserializeConstructor(r)
	if err != nil {
		return nil, err
	}

	pBits, err := readBitVector(r)
	if err != nil {
		return nil, err
	}
	qBits, err := readBitVector(r)
	if err != nil {
		return nil, err
	}
	weights, err := readHeap(r)
	if err != nil {
		return nil, err
	}

	return &deterministicSplitter{
		base:        base,
		initP:       &dynamicColumn{bv: pBits, ones: buildOnePositions(pBits)},
		initQ:       &dynamicColumn{bv: qBits, ones: buildOnePositions(qBits)},
		initWeights: weights,
	}, nil
}

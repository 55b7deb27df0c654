package rindex

import (
	"bytes"
	"reflect"
	"testing"
)

func TestDeterministicSplitter_Build(t *testing.T) {
	c := buildTestConstructor(t, "mississippi")
	s := newDeterministicSplitter(c)

	result := s.build(2, nil)
	if got := result.bitsSet(); got < c.runs() {
		t.Errorf("build(2) produced %d set bits, fewer than the base run count %d", got, c.runs())
	}
}

func TestDeterministicSplitter_SmallerBoundSplitsMoreOrEqual(t *testing.T) {
	tight := newDeterministicSplitter(buildTestConstructor(t, "abracadabraabracadabra"))
	loose := newDeterministicSplitter(buildTestConstructor(t, "abracadabraabracadabra"))

	tightResult := tight.build(2, nil)
	looseResult := loose.build(8, nil)

	if tightResult.bitsSet() < looseResult.bitsSet() {
		t.Errorf("a tighter bound (d=2, %d runs) produced fewer runs than a looser one (d=8, %d runs)",
			tightResult.bitsSet(), looseResult.bitsSet())
	}
}

func TestDeterministicSplitter_OnSplitCalledOncePerSplit(t *testing.T) {
	c := buildTestConstructor(t, "abracadabraabracadabra")
	s := newDeterministicSplitter(c)

	calls := 0
	lastCount := 0
	result := s.build(2, func(count, runs, maxWeight int) {
		calls++
		lastCount = count
	})

	runsAdded := result.bitsSet() - c.runs()
	if calls != runsAdded {
		t.Errorf("onSplit called %d times, want %d (runs added)", calls, runsAdded)
	}
	if calls > 0 && lastCount != calls {
		t.Errorf("last onSplit count = %d, want %d", lastCount, calls)
	}
}

func TestDeterministicSplitter_InvalidBoundPanics(t *testing.T) {
	c := buildTestConstructor(t, "ab")
	s := newDeterministicSplitter(c)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("build(1) did not panic")
		}
	}()
	s.build(1, nil)
}

// splitSnapshot captures the mutable state a splitStep call touches,
// so two calls can be compared for an exact no-op.
type splitSnapshot struct {
	pOnes   []int
	qOnes   []int
	weights map[int]entry
}

func snapshotSplitState(pPrime, qPrime *dynamicColumn, weights *indexedHeap) splitSnapshot {
	s := splitSnapshot{
		pOnes:   append([]int(nil), pPrime.ones...),
		qOnes:   append([]int(nil), qPrime.ones...),
		weights: make(map[int]entry, len(weights.entry)),
	}
	for k, v := range weights.entry {
		s.weights[k] = v
	}
	return s
}

// TestDeterministicSplitter_RepeatedSplitIsIdempotent forces both
// q_split and p_split to already be present in Q'/P' before splitStep
// runs, simulating the position being reached earlier through an
// iterated cascade, and checks the call becomes a full no-op instead
// of double-counting a weight or panicking out of weights.push on a
// duplicate index.
//
// qInsertPos is computed from pPrime before any mutation, and
// pInsertPos = find(qInsertPos) depends only on qInsertPos, not on
// pPrime/qPrime's mutable state, so both are known exactly before
// either column is touched. Setting pInsertPos in pPrime ahead of the
// call can itself shift rank1(maxIndex) if pInsertPos < maxIndex,
// which would change the position splitStep derives internally; the
// test checks for that shift and skips rather than asserting on a
// scenario it can no longer guarantee.
func TestDeterministicSplitter_RepeatedSplitIsIdempotent(t *testing.T) {
	c := buildTestConstructor(t, "abracadabraabracadabra")
	s := newDeterministicSplitter(c)
	const d = 2

	pPrime := s.initP.clone()
	qPrime := s.initQ.clone()
	weights := s.initWeights.clone()
	maxWeight, maxIndex := weights.getMax()

	firstPRun := pPrime.rank1(maxIndex)
	qInsertPos := pPrime.select1(firstPRun + d)
	pInsertPos := s.base.find(qInsertPos)

	qPrime.set(qInsertPos, true)
	pPrime.set(pInsertPos, true)

	firstPRunAfter := pPrime.rank1(maxIndex)
	qInsertPosAfter := pPrime.select1(firstPRunAfter + d)
	if firstPRunAfter != firstPRun || qInsertPosAfter != qInsertPos {
		t.Skip("forced p_split position shifted the derived q_split position for this input; scenario no longer applies")
	}

	before := snapshotSplitState(pPrime, qPrime, weights)

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("splitStep panicked on an already-cascaded split: %v", r)
			}
		}()
		s.splitStep(pPrime, qPrime, weights, d, maxWeight, maxIndex)
	}()

	after := snapshotSplitState(pPrime, qPrime, weights)

	if !reflect.DeepEqual(before.pOnes, after.pOnes) {
		t.Errorf("P' changed on an already-cascaded split: before %v, after %v", before.pOnes, after.pOnes)
	}
	if !reflect.DeepEqual(before.qOnes, after.qOnes) {
		t.Errorf("Q' changed on an already-cascaded split: before %v, after %v", before.qOnes, after.qOnes)
	}
	if !reflect.DeepEqual(before.weights, after.weights) {
		t.Errorf("heap weights changed on an already-cascaded split: before %v, after %v", before.weights, after.weights)
	}
}

func TestDeterministicSplitter_SerializeRoundTrip(t *testing.T) {
	c := buildTestConstructor(t, "mississippi")
	s := newDeterministicSplitter(c)

	var buf bytes.Buffer
	if err := s.serialize(&buf); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	loaded, err := deserializeDeterministicSplitter(&buf)
	if err != nil {
		t.Fatalf("deserializeDeterministicSplitter: %v", err)
	}

	want := newDeterministicSplitter(buildTestConstructor(t, "mississippi")).build(2, nil)
	got := loaded.build(2, nil)
	if want.bitsSet() != got.bitsSet() {
		t.Fatalf("build(2) after round trip = %d set bits, want %d", got.bitsSet(), want.bitsSet())
	}
	for i := 0; i < want.size(); i++ {
		if want.at(i) != got.at(i) {
			t.Fatalf("bit %d differs after round trip", i)
		}
	}
}

package rindex

import (
	"bufio"
	"fmt"
	"io"
)

// flRow is a single entry of the FL table. Entries are indexed in
// F-order: for character c ascending 0..255, for each L-run of
// character c (in L-order), one entry — the same subdivision Q uses
// for its run heads, so a table index doubles as a Q-run index.
//
// character/length describe this entry's own run (the same physical
// run viewed from the F side); interval/offset/lPos are filled by the
// L/F merge and describe where this run's first character lands under
// FL, and its true L-order run index.
type flRow struct {
	character byte
	length    int
	interval  int // index (in this same F-order table) of the run FL maps this row's head into
	offset    int // offset within flRuns[interval] where this row's first char lands
	lPos      int // this run's own index in L-order (redundant convenience)
}

// flTable is the per-run record of the BWT's runs, built from paired
// head/length streams, supporting FL(run, offset) in O(1) amortized
// hops.
//
// Grounded on original_source/include/ds/FL_table.hpp, ported directly:
// rows are indexed in F-order (matching Q's run numbering, so find()
// can feed a Q-run index straight into FL without translation), not in
// L-order — confirmed against a hand-checked three-run example and
// against find()'s own call pattern, which only makes sense if rows
// live in F-order.
type flTable struct {
	n    int
	r    int
	rows []flRow
}

// newFLTable reads the paired head/length streams (one head byte and
// one 5-byte little-endian length per run, L-order) and builds the FL
// table.
func newFLTable(heads io.Reader, lengths io.Reader) (flTable, error) {
	chars, lens, err := decodeRuns(heads, lengths)
	if err != nil {
		return flTable{}, err
	}
	return newFLTableFromRuns(chars, lens)
}

// decodeRuns reads the paired head/length streams into parallel slices
// of (terminator-folded) characters and run lengths, in L-order.
func decodeRuns(heads io.Reader, lengths io.Reader) (chars []byte, lens []int, err error) {
	headsBuf := bufio.NewReader(heads)
	lengthsBuf := bufio.NewReader(lengths)

	i := 0
	for {
		c, err := headsBuf.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("rindex: reading head stream: %w", err)
		}

		length, err := readUint40(lengthsBuf)
		if err != nil {
			return nil, nil, fmt.Errorf("rindex: reading length for run %d: %w", i, err)
		}
		if length == 0 {
			return nil, nil, fmt.Errorf("rindex: run %d has length 0", i)
		}

		if c <= terminator {
			c = terminator
		}

		chars = append(chars, c)
		lens = append(lens, length)
		i++
	}

	if len(lens) == 0 {
		return nil, nil, fmt.Errorf("rindex: empty head stream, no runs to build an FL table from")
	}
	return chars, lens, nil
}

// newFLTableFromRuns builds the FL table from already-decoded,
// L-order, terminator-folded (character, length) run pairs.
func newFLTableFromRuns(chars []byte, lens []int) (flTable, error) {
	// lBlockIndices[c] holds, in L-order, the global run indices whose
	// character is c. charRuns[c] holds the matching lengths, in the
	// same order.
	lBlockIndices := make([][]int, 256)
	charRuns := make([][]int, 256)

	n := 0
	for i, c := range chars {
		lBlockIndices[c] = append(lBlockIndices[c], i)
		charRuns[c] = append(charRuns[c], lens[i])
		n += lens[i]
	}

	r := len(lens)
	rows := make([]flRow, r)

	// Emit rows in F-order: for c ascending, for each run of character
	// c in L-order, append (character=c, length).
	k := 0
	for c := 0; c < 256; c++ {
		for _, length := range charRuns[c] {
			rows[k].character = byte(c)
			rows[k].length = length
			k++
		}
	}
	if k != r {
		return flTable{}, fmt.Errorf("rindex: internal error, F-order listing has %d entries, expected %d", k, r)
	}

	// Two-cursor merge, in the same F-order traversal: for each run,
	// find the absolute L-position where it starts (lSeen), then find
	// which entry of this same F-order table "contains" that absolute
	// value once entry lengths are read off in F-order and
	// cumulatively summed.
	k = 0
	for c := 0; c < 256; c++ {
		fCurr, fSeen := 0, 0
		lCurr, lSeen := 0, 0

		for _, runIdx := range lBlockIndices[c] {
			for lCurr < runIdx {
				lSeen += lens[lCurr]
				lCurr++
			}
			for fSeen+rows[fCurr].length <= lSeen {
				fSeen += rows[fCurr].length
				fCurr++
			}

			rows[k].interval = fCurr
			rows[k].offset = lSeen - fSeen
			rows[k].lPos = lCurr
			k++
		}
	}

	return flTable{n: n, r: r, rows: rows}, nil
}

func (t flTable) size() int { return t.n }
func (t flTable) runs() int { return t.r }

// FL maps (run, offset) to the run and within-run offset that the
// character there maps to under FL. run/offset live in the same
// index space throughout, so FL is self-composable: find() and
// invert/getRunLCS iterate it directly.
func (t flTable) FL(run, offset int) (nextRun, nextOffset int) {
	nextRun = t.rows[run].interval
	nextOffset = t.rows[run].offset + offset

	for nextOffset >= t.rows[nextRun].length {
		nextOffset -= t.rows[nextRun].length
		nextRun++
	}

	return nextRun, nextOffset
}

func (t flTable) getChar(run int) byte {
	return t.rows[run].character
}

// invert streams the original text (without its terminator) by
// repeatedly applying FL starting from (0, 0) — the table's first
// row always belongs to the terminator's own run (it sorts first),
// so each step is taken before the character at the new position is
// read, not after; checking before would see the terminator
// immediately and stop without emitting anything.
func (t flTable) invert() []byte {
	if t.r == 0 {
		return nil
	}

	out := make([]byte, 0, t.n)
	run, offset := 0, 0
	for {
		run, offset = t.FL(run, offset)
		c := t.getChar(run)
		if c <= terminator {
			break
		}
		out = append(out, c)
	}

	return out
}

// getRunLCS computes, for each row, the minimum LCP along the FL
// trajectory into it, mirroring original_source's get_run_lcs. The
// output is indexed by lPos (L-order run index), matching the
// original's own min_lcs[FL_runs[k].L_pos] assignment — the read at
// index k is in F-order while the write at lPos is in L-order, and
// that mixing is mirrored here rather than "fixed".
func (t flTable) getRunLCS() []int {
	minLCS := make([]int, t.r)
	for i := range minLCS {
		minLCS[i] = -1
	}

	k, d, currLCS := 0, 0, 0
	for {
		if d == 0 {
			currLCS = 0
			if t.rows[k].length == 1 {
				minLCS[t.rows[k].lPos] = currLCS
			}
		} else {
			currLCS++
			prev := minLCS[k]
			if prev == -1 || currLCS < prev {
				minLCS[t.rows[k].lPos] = currLCS
			} else {
				minLCS[t.rows[k].lPos] = prev
			}
		}

		k, d = t.FL(k, d)
		if k == 0 && d == 0 {
			break
		}
	}

	return minLCS
}

func readUint40(r io.Reader) (int, error) {
	var buf [5]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	v := 0
	for i := 4; i >= 0; i-- {
		v = (v << 8) | int(buf[i])
	}
	return v, nil
}

func writeUint40(w io.Writer, v int) error {
	var buf [5]byte
	for i := 0; i < 5; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
	_, err := w.Write(buf[:])
	return err
}

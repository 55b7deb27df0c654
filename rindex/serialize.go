package rindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// writeColumn serializes a static column's underlying bitvector as its
// bit length followed by its packed words, little-endian. Rank and
// select support is rebuilt from the bits on load rather than
// persisted.
func writeColumn(w io.Writer, c column) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(c.bv.numberOfBits)); err != nil {
		return fmt.Errorf("rindex: writing column length: %w", err)
	}
	for _, word := range c.bv.words {
		if err := binary.Write(bw, binary.LittleEndian, word); err != nil {
			return fmt.Errorf("rindex: writing column words: %w", err)
		}
	}
	return bw.Flush()
}

// readColumn reads a static column written by writeColumn and rebuilds
// its rank/select support.
func readColumn(r io.Reader) (column, error) {
	br := bufio.NewReader(r)

	var numberOfBits uint64
	if err := binary.Read(br, binary.LittleEndian, &numberOfBits); err != nil {
		return column{}, fmt.Errorf("rindex: reading column length: %w", err)
	}

	bv := newBitVector(int(numberOfBits))
	for i := range bv.words {
		if err := binary.Read(br, binary.LittleEndian, &bv.words[i]); err != nil {
			return column{}, fmt.Errorf("rindex: reading column words: %w", err)
		}
	}

	return newColumn(bv), nil
}

// writeLCS serializes a per-run minimum-LCP array as one 5-byte
// little-endian value per entry.
func writeLCS(w io.Writer, lcs []int) error {
	bw := bufio.NewWriter(w)
	for _, v := range lcs {
		if v < 0 {
			v = 0
		}
		if err := writeUint40(bw, v); err != nil {
			return fmt.Errorf("rindex: writing lcs entry: %w", err)
		}
	}
	return bw.Flush()
}

// serializeConstructor writes the FL table, P, and Q of a base
// constructor, so a saved `.fl` file can be reloaded without
// re-reading the original head/length streams.
func serializeConstructor(w io.Writer, c *constructor) error {
	if err := writeFLTable(w, c.table); err != nil {
		return err
	}
	if err := writeColumn(w, c.p); err != nil {
		return err
	}
	return writeColumn(w, c.q)
}

func deserializeConstructor(r io.Reader) (*constructor, error) {
	// One shared buffered reader, so read-ahead by one section is not
	// lost to the next (the readers below reuse it via bufio.NewReader).
	r = bufio.NewReader(r)

	table, err := readFLTable(r)
	if err != nil {
		return nil, err
	}
	p, err := readColumn(r)
	if err != nil {
		return nil, err
	}
	q, err := readColumn(r)
	if err != nil {
		return nil, err
	}
	return &constructor{table: table, p: p, q: q}, nil
}

// writeFLTable serializes the FL table as n, r, size, then size rows
// of (character, interval, length, offset, lPos) as raw little-endian
// words. lPos is stored as a fifth word so that readFLTable is a pure
// inverse of writeFLTable.
func writeFLTable(w io.Writer, t flTable) error {
	bw := bufio.NewWriter(w)

	for _, v := range []uint64{uint64(t.n), uint64(t.r), uint64(len(t.rows))} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("rindex: writing FL table header: %w", err)
		}
	}

	for _, row := range t.rows {
		fields := []uint64{
			uint64(row.character),
			uint64(row.interval),
			uint64(row.length),
			uint64(row.offset),
			uint64(row.lPos),
		}
		for _, v := range fields {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("rindex: writing FL row: %w", err)
			}
		}
	}

	return bw.Flush()
}

func readFLTable(r io.Reader) (flTable, error) {
	br := bufio.NewReader(r)

	var n, runCount, size uint64
	for _, v := range []*uint64{&n, &runCount, &size} {
		if err := binary.Read(br, binary.LittleEndian, v); err != nil {
			return flTable{}, fmt.Errorf("rindex: reading FL table header: %w", err)
		}
	}

	rows := make([]flRow, size)
	for i := range rows {
		var character, interval, length, offset, lPos uint64
		for _, v := range []*uint64{&character, &interval, &length, &offset, &lPos} {
			if err := binary.Read(br, binary.LittleEndian, v); err != nil {
				return flTable{}, fmt.Errorf("rindex: reading FL row %d: %w", i, err)
			}
		}
		rows[i] = flRow{
			character: byte(character),
			interval:  int(interval),
			length:    int(length),
			offset:    int(offset),
			lPos:      int(lPos),
		}
	}

	return flTable{n: int(n), r: int(runCount), rows: rows}, nil
}

// writeBitVector serializes a plain bitvector (length + packed words),
// the same wire shape writeColumn uses for its underlying bits,
// reused here for P' and Q'.
func writeBitVector(w io.Writer, bv bitVector) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(bv.numberOfBits)); err != nil {
		return fmt.Errorf("rindex: writing bitvector length: %w", err)
	}
	for _, word := range bv.words {
		if err := binary.Write(bw, binary.LittleEndian, word); err != nil {
			return fmt.Errorf("rindex: writing bitvector words: %w", err)
		}
	}
	return bw.Flush()
}

func readBitVector(r io.Reader) (bitVector, error) {
	br := bufio.NewReader(r)

	var numberOfBits uint64
	if err := binary.Read(br, binary.LittleEndian, &numberOfBits); err != nil {
		return bitVector{}, fmt.Errorf("rindex: reading bitvector length: %w", err)
	}

	bv := newBitVector(int(numberOfBits))
	for i := range bv.words {
		if err := binary.Read(br, binary.LittleEndian, &bv.words[i]); err != nil {
			return bitVector{}, fmt.Errorf("rindex: reading bitvector words: %w", err)
		}
	}
	return bv, nil
}

// writeHeap serializes an indexed heap as n, limit, the packed heap
// array (slots), then for each present entry a (index, heap-position,
// weight) triple.
func writeHeap(w io.Writer, h *indexedHeap) error {
	bw := bufio.NewWriter(w)

	header := []uint64{uint64(len(h.slots)), uint64(h.limit)}
	for _, v := range header {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("rindex: writing heap header: %w", err)
		}
	}
	for _, idx := range h.slots {
		if err := binary.Write(bw, binary.LittleEndian, uint64(idx)); err != nil {
			return fmt.Errorf("rindex: writing heap slots: %w", err)
		}
	}
	for idx, e := range h.entry {
		triple := []uint64{uint64(idx), uint64(e.heapPos), uint64(e.weight)}
		for _, v := range triple {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("rindex: writing heap entry: %w", err)
			}
		}
	}

	return bw.Flush()
}

func readHeap(r io.Reader) (*indexedHeap, error) {
	br := bufio.NewReader(r)

	var n, limit uint64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("rindex: reading heap size: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &limit); err != nil {
		return nil, fmt.Errorf("rindex: reading heap limit: %w", err)
	}

	h := newIndexedHeap(int(limit))
	h.slots = make([]int, n)
	for i := range h.slots {
		var v uint64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("rindex: reading heap slot %d: %w", i, err)
		}
		h.slots[i] = int(v)
	}

	for i := uint64(0); i < n; i++ {
		var idx, heapPos, weight uint64
		for _, v := range []*uint64{&idx, &heapPos, &weight} {
			if err := binary.Read(br, binary.LittleEndian, v); err != nil {
				return nil, fmt.Errorf("rindex: reading heap entry %d: %w", i, err)
			}
		}
		h.entry[int(idx)] = entry{heapPos: int(heapPos), weight: int(weight)}
	}

	return h, nil
}

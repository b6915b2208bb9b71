package tieredstore

import "encoding/binary"

// indexWriter accumulates the per-account index entries in insertion
// order: addresses and block offsets, to be serialized as two parallel
// arrays (§4.6, the "AddressAndOffset" variant).
type indexWriter struct {
	addresses     [][AddressSize]byte
	blockOffsets  []uint64
}

func newIndexWriter() *indexWriter {
	return &indexWriter{}
}

func (w *indexWriter) append(address [AddressSize]byte, blockOffset uint64) {
	w.addresses = append(w.addresses, address)
	w.blockOffsets = append(w.blockOffsets, blockOffset)
}

func (w *indexWriter) count() int {
	return len(w.addresses)
}

// encode serializes the index block: all addresses, then all offsets,
// in insertion order (§4.6, §6.1).
func (w *indexWriter) encode() []byte {
	n := len(w.addresses)
	out := make([]byte, n*AddressSize+n*8)

	for i, a := range w.addresses {
		copy(out[i*AddressSize:(i+1)*AddressSize], a[:])
	}

	offBase := n * AddressSize
	for i, off := range w.blockOffsets {
		binary.LittleEndian.PutUint64(out[offBase+i*8:offBase+(i+1)*8], off)
	}

	return out
}

// indexView is the read-side accessor over the memory-mapped index
// block: two parallel arrays of addresses and block offsets.
type indexView struct {
	addresses []byte // accountEntryCount * AddressSize
	offsets   []byte // accountEntryCount * 8
	count     uint32
}

func newIndexView(data []byte, count uint32) indexView {
	addrSize := int(count) * AddressSize
	return indexView{
		addresses: data[:addrSize],
		offsets:   data[addrSize : addrSize+int(count)*8],
		count:     count,
	}
}

func (v indexView) address(i uint32) [AddressSize]byte {
	var out [AddressSize]byte
	off := int(i) * AddressSize
	copy(out[:], v.addresses[off:off+AddressSize])
	return out
}

func (v indexView) blockOffset(i uint32) uint64 {
	off := int(i) * 8
	return binary.LittleEndian.Uint64(v.offsets[off : off+8])
}

// blockSize recovers the i-th block's byte length per §4.6: scan
// forward through the offset array for the next offset that differs
// (a format variant could pack multiple accounts per block, though the
// current writer never does); if none differs, the block runs to
// indexBlockOffset.
func (v indexView) blockSize(i uint32, indexBlockOffset uint64) uint64 {
	start := v.blockOffset(i)
	for j := i + 1; j < v.count; j++ {
		next := v.blockOffset(j)
		if next != start {
			return next - start
		}
	}
	return indexBlockOffset - start
}

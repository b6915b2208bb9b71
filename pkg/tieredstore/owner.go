package tieredstore

// ownerTable is the write-side owner-address deduplicator (§4.5). It
// maps an address to its compact 29-bit index and keeps an
// insertion-ordered list for later serialization.
type ownerTable struct {
	indices   map[[AddressSize]byte]uint32
	addresses [][AddressSize]byte
}

func newOwnerTable() *ownerTable {
	return &ownerTable{indices: make(map[[AddressSize]byte]uint32)}
}

// tryInsert returns the existing index for address if already present,
// or appends it and returns the new index. Panics once the table would
// exceed the 29-bit owner_index range — a write-side invariant
// violation, not a recoverable error (§4.5, §7 OwnerIndexOverflow).
func (t *ownerTable) tryInsert(address [AddressSize]byte) uint32 {
	if idx, ok := t.indices[address]; ok {
		return idx
	}

	if len(t.addresses) > maxOwnerIndex {
		panic("tieredstore: owner index overflow")
	}

	idx := uint32(len(t.addresses))
	t.indices[address] = idx
	t.addresses = append(t.addresses, address)
	return idx
}

func (t *ownerTable) count() int {
	return len(t.addresses)
}

// encode serializes the owner table in insertion order: a flat run of
// 32-byte addresses, nothing else (§4.5, §6.1).
func (t *ownerTable) encode() []byte {
	out := make([]byte, 0, len(t.addresses)*AddressSize)
	for _, a := range t.addresses {
		out = append(out, a[:]...)
	}
	return out
}

// ownerView is the read-side accessor over a memory-mapped owners
// block: a resolve by byte offset, no deduplication needed since the
// block is already deduplicated by construction (§4.5).
type ownerView struct {
	data []byte // owners block bytes: ownerCount * AddressSize
}

func newOwnerView(data []byte) ownerView {
	return ownerView{data: data}
}

// address returns the index-th owner address, copied out of the
// memory map.
func (v ownerView) address(index uint32) [AddressSize]byte {
	var out [AddressSize]byte
	off := int(index) * AddressSize
	copy(out[:], v.data[off:off+AddressSize])
	return out
}

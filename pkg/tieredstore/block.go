package tieredstore

import "encoding/binary"

// blockBuilder accumulates one account's on-disk bytes in memory: meta,
// data, padding, then the present optional fields in the fixed order
// rent_epoch, account_hash, write_version (§4.2, §6.1).
//
// It never touches the filesystem; the Writer drains finish() into the
// file.
type blockBuilder struct {
	buf []byte
}

func newBlockBuilder(dataLen int) *blockBuilder {
	// meta + data + up to 7 bytes padding + up to 48 bytes optional
	// fields is a reasonable capacity guess; append grows it if short.
	return &blockBuilder{buf: make([]byte, 0, AccountMetaSize+dataLen+maxPadding+48)}
}

func (b *blockBuilder) writeMeta(m AccountMeta) {
	var tmp [AccountMetaSize]byte
	m.encode(tmp[:])
	b.buf = append(b.buf, tmp[:]...)
}

func (b *blockBuilder) write(p []byte) {
	b.buf = append(b.buf, p...)
}

func (b *blockBuilder) writePadding(n uint8) {
	for i := uint8(0); i < n; i++ {
		b.buf = append(b.buf, 0)
	}
}

func (b *blockBuilder) writeU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *blockBuilder) writeHash(h [32]byte) {
	b.buf = append(b.buf, h[:]...)
}

func (b *blockBuilder) finish() []byte {
	return b.buf
}

// buildAccountBlock assembles one full account block per §6.1: meta,
// data, padding, then present optional fields in fixed order.
func buildAccountBlock(meta AccountMeta, data []byte, rec AccountRecord) []byte {
	padding := (AlignBoundary - len(data)%AlignBoundary) % AlignBoundary
	if padding > maxPadding {
		// len(data)%8 is always in [0,7], so (8-x)%8 is always in
		// [0,7]; this can only happen if AlignBoundary itself was
		// changed inconsistently with maxPadding.
		panic("tieredstore: padding overflow")
	}

	b := newBlockBuilder(len(data))
	b.writeMeta(meta)
	b.write(data)
	b.writePadding(uint8(padding))

	if meta.Flags.HasRentEpoch() {
		b.writeU64(rec.RentEpoch)
	}
	if meta.Flags.HasAccountHash() {
		b.writeHash(rec.ContentHash)
	}
	if meta.Flags.HasWriteVersion() {
		b.writeU64(rec.WriteVersion)
	}

	return b.finish()
}

package tieredstore

import "encoding/binary"

// Footer is the fixed, typed trailer describing a finalized file (§3.1,
// §6.1). It is written last by the Writer and read first by the
// Reader. Field order here matches the on-disk byte order exactly.
type Footer struct {
	AccountMetaFormat      AccountMetaFormat
	OwnersBlockFormat      OwnersBlockFormat
	AccountIndexFormat     AccountIndexFormat
	AccountDataBlockFormat AccountDataBlockFormat

	AccountEntryCount    uint32
	AccountMetaEntrySize uint32
	AccountDataBlockSize uint64

	OwnerCount     uint32
	OwnerEntrySize uint32

	IndexBlockOffset  uint64
	OwnersBlockOffset uint64

	MinAddress  [AddressSize]byte
	MaxAddress  [AddressSize]byte
	ContentHash [32]byte

	FooterSize    uint64
	FormatVersion uint64
}

func init() {
	// Equivalent of the original implementation's compile-time
	// offset_of! assertions: verify the hand-counted byte layout below
	// actually sums to the sizes the format mandates.
	const sum = 8 + 8 + 8 + 8 + // four u64 discriminants
		4 + 4 + 8 + // account_entry_count, account_meta_entry_size, account_data_block_size
		4 + 4 + // owner_count, owner_entry_size
		8 + 8 + // index_block_offset, owners_block_offset
		AddressSize + AddressSize + 32 + // min/max address, content hash
		8 + 8 // footer_size, format_version

	if sum != FooterStructSize {
		panic("tieredstore: footer layout does not sum to FooterStructSize")
	}
	if FooterStructSize-FooterBodySize != 16 {
		panic("tieredstore: footer tail-in-struct portion must be 16 bytes")
	}
	if FooterBodySize+FooterTailSize != FooterSize {
		panic("tieredstore: footer body + tail must equal total footer size")
	}
}

// encode serializes the footer struct (not including the magic number)
// into a FooterStructSize-byte buffer in on-disk order.
func (f Footer) encode() []byte {
	buf := make([]byte, FooterStructSize)

	binary.LittleEndian.PutUint64(buf[0:8], uint64(f.AccountMetaFormat))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(f.OwnersBlockFormat))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(f.AccountIndexFormat))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(f.AccountDataBlockFormat))

	binary.LittleEndian.PutUint32(buf[32:36], f.AccountEntryCount)
	binary.LittleEndian.PutUint32(buf[36:40], f.AccountMetaEntrySize)
	binary.LittleEndian.PutUint64(buf[40:48], f.AccountDataBlockSize)

	binary.LittleEndian.PutUint32(buf[48:52], f.OwnerCount)
	binary.LittleEndian.PutUint32(buf[52:56], f.OwnerEntrySize)

	binary.LittleEndian.PutUint64(buf[56:64], f.IndexBlockOffset)
	binary.LittleEndian.PutUint64(buf[64:72], f.OwnersBlockOffset)

	copy(buf[72:104], f.MinAddress[:])
	copy(buf[104:136], f.MaxAddress[:])
	copy(buf[136:168], f.ContentHash[:])

	binary.LittleEndian.PutUint64(buf[168:176], f.FooterSize)
	binary.LittleEndian.PutUint64(buf[176:184], f.FormatVersion)

	return buf
}

// encodeBodyBeforeHash serializes only the footer bytes preceding
// content_hash (everything the Writer must write before it can
// snapshot the running hash, §4.3 step (a)). content_hash itself is
// never part of the hashed prefix: it is written separately once the
// hash is known (step (b)), so it must not be folded into the hash
// computation.
func (f Footer) encodeBodyBeforeHash() []byte {
	return f.encode()[:FooterBodySize-32]
}

// encodeTail serializes the 24-byte footer tail: footer_size,
// format_version, magic_number.
func encodeTail(footerSize, formatVersion uint64) []byte {
	buf := make([]byte, FooterTailSize)
	binary.LittleEndian.PutUint64(buf[0:8], footerSize)
	binary.LittleEndian.PutUint64(buf[8:16], formatVersion)
	binary.LittleEndian.PutUint64(buf[16:24], magicNumber)
	return buf
}

// decodeFooter parses a FooterStructSize-byte buffer (the footer
// without its trailing magic number) into a Footer.
func decodeFooter(buf []byte) Footer {
	_ = buf[FooterStructSize-1]

	var f Footer
	f.AccountMetaFormat = AccountMetaFormat(binary.LittleEndian.Uint64(buf[0:8]))
	f.OwnersBlockFormat = OwnersBlockFormat(binary.LittleEndian.Uint64(buf[8:16]))
	f.AccountIndexFormat = AccountIndexFormat(binary.LittleEndian.Uint64(buf[16:24]))
	f.AccountDataBlockFormat = AccountDataBlockFormat(binary.LittleEndian.Uint64(buf[24:32]))

	f.AccountEntryCount = binary.LittleEndian.Uint32(buf[32:36])
	f.AccountMetaEntrySize = binary.LittleEndian.Uint32(buf[36:40])
	f.AccountDataBlockSize = binary.LittleEndian.Uint64(buf[40:48])

	f.OwnerCount = binary.LittleEndian.Uint32(buf[48:52])
	f.OwnerEntrySize = binary.LittleEndian.Uint32(buf[52:56])

	f.IndexBlockOffset = binary.LittleEndian.Uint64(buf[56:64])
	f.OwnersBlockOffset = binary.LittleEndian.Uint64(buf[64:72])

	copy(f.MinAddress[:], buf[72:104])
	copy(f.MaxAddress[:], buf[104:136])
	copy(f.ContentHash[:], buf[136:168])

	f.FooterSize = binary.LittleEndian.Uint64(buf[168:176])
	f.FormatVersion = binary.LittleEndian.Uint64(buf[176:184])

	return f
}

// format reconstructs the Format discriminant struct this footer was
// written with.
func (f Footer) format() Format {
	return Format{
		AccountMetaFormat:      f.AccountMetaFormat,
		OwnersBlockFormat:      f.OwnersBlockFormat,
		AccountIndexFormat:     f.AccountIndexFormat,
		AccountDataBlockFormat: f.AccountDataBlockFormat,
	}
}

package tieredstore

import "encoding/binary"

// Fixed format constants. These are bit-exact per the file format and
// must never change without a new FormatVersion.
const (
	// AddressSize is the byte width of an account or owner address
	// (a Pubkey).
	AddressSize = 32

	// AccountMetaSize is the fixed on-disk size of an AccountMeta entry.
	AccountMetaSize = 16

	// IndexEntrySize is the combined size of one address + one block
	// offset in the index block (32 + 8).
	IndexEntrySize = AddressSize + 8

	// FooterBodySize is the size of the footer fields that precede the
	// tail (four u64 format discriminants, the count/size/offset
	// fields, and the three 32-byte address/hash fields).
	FooterBodySize = 168

	// FooterTailSize is the size of the fixed, version-stable tail:
	// footer_size and format_version (the last two fields of the
	// footer struct) plus the magic_number that follows the struct on
	// disk, each a u64.
	FooterTailSize = 24

	// FooterStructSize is the total size of the footer struct on disk,
	// not including the magic trailer (§3.1: "fixed 184 bytes, plus
	// 8-byte magic trailer"). It equals FooterBodySize plus the
	// footer_size and format_version fields (16 bytes).
	FooterStructSize = 184

	// FooterSize is the total number of trailing bytes occupied by the
	// footer struct and the magic number together (§8.1: "total tail
	// bytes (footer + magic) == 192").
	FooterSize = FooterStructSize + 8

	// AlignBoundary is the 8-byte boundary optional fields are padded
	// to, and the multiplier used by the external positional-offset
	// convention in StoredAccountInfo.Offset.
	AlignBoundary = 8

	// FormatVersion is the only format version this reader and writer
	// understand.
	FormatVersion = 1

	// maxOwnerIndex is the largest value that fits in the 29-bit
	// owner_index field.
	maxOwnerIndex = 1<<29 - 1

	// maxPadding is the largest value that fits in the 3-bit padding
	// field.
	maxPadding = 7
)

// magicNumber is the ASCII bytes "AnzaTech" interpreted as a
// little-endian u64, stored as the file's trailing 8 bytes.
var magicNumber = binary.LittleEndian.Uint64([]byte("AnzaTech"))

package tieredstore

import (
	"encoding/binary"
	"fmt"
)

// AccountMetaFlags is the 32-bit flags word of an AccountMeta entry. Each
// bit independently controls whether the corresponding optional field
// trails the account block.
type AccountMetaFlags uint32

const (
	flagHasRentEpoch AccountMetaFlags = 1 << iota
	flagHasAccountHash
	flagHasWriteVersion
	flagExecutable
)

// HasRentEpoch reports whether rent_epoch trails the account block.
func (f AccountMetaFlags) HasRentEpoch() bool { return f&flagHasRentEpoch != 0 }

// HasAccountHash reports whether account_hash trails the account block.
func (f AccountMetaFlags) HasAccountHash() bool { return f&flagHasAccountHash != 0 }

// HasWriteVersion reports whether write_version trails the account block.
func (f AccountMetaFlags) HasWriteVersion() bool { return f&flagHasWriteVersion != 0 }

// Executable reports the account's executable bit.
func (f AccountMetaFlags) Executable() bool { return f&flagExecutable != 0 }

func makeAccountMetaFlags(hasRentEpoch, hasAccountHash, hasWriteVersion, executable bool) AccountMetaFlags {
	var f AccountMetaFlags
	if hasRentEpoch {
		f |= flagHasRentEpoch
	}
	if hasAccountHash {
		f |= flagHasAccountHash
	}
	if hasWriteVersion {
		f |= flagHasWriteVersion
	}
	if executable {
		f |= flagExecutable
	}
	return f
}

// AccountMeta is the fixed 16-byte physical metadata entry that leads
// every account block (§3.1, §6.1 "Metadata layout").
//
//	bytes 0..8:  lamports   (u64 LE)
//	bytes 8..12: packed     (u32 LE): padding in bits 29..31, owner_index in bits 0..28
//	bytes 12..16: flags     (u32 LE)
type AccountMeta struct {
	Lamports uint64
	Flags    AccountMetaFlags

	packed uint32
}

// newAccountMeta builds an AccountMeta, validating padding and
// owner_index against the format's bit-field widths. Overflow is a
// programmer error: the caller is expected to have derived padding from
// data length and owner_index from a owner table of bounded size, so a
// violation here means an invariant elsewhere was already broken.
func newAccountMeta(lamports uint64, ownerIndex uint32, padding uint8, flags AccountMetaFlags) AccountMeta {
	if padding > maxPadding {
		panic(fmt.Sprintf("tieredstore: padding overflow: %d > %d", padding, maxPadding))
	}
	if ownerIndex > maxOwnerIndex {
		panic(fmt.Sprintf("tieredstore: owner index overflow: %d > %d", ownerIndex, maxOwnerIndex))
	}

	return AccountMeta{
		Lamports: lamports,
		Flags:    flags,
		packed:   uint32(padding)<<29 | (ownerIndex & maxOwnerIndex),
	}
}

// Padding returns the 0-7 byte count needed after the account data so
// the first optional field starts on an 8-byte boundary.
func (m AccountMeta) Padding() uint8 { return uint8(m.packed >> 29) }

// OwnerIndex returns the offset of this account's owner into the
// owner table.
func (m AccountMeta) OwnerIndex() uint32 { return m.packed & maxOwnerIndex }

func (m AccountMeta) encode(dst []byte) {
	_ = dst[AccountMetaSize-1]
	binary.LittleEndian.PutUint64(dst[0:8], m.Lamports)
	binary.LittleEndian.PutUint32(dst[8:12], m.packed)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(m.Flags))
}

func decodeAccountMeta(src []byte) AccountMeta {
	_ = src[AccountMetaSize-1]
	return AccountMeta{
		Lamports: binary.LittleEndian.Uint64(src[0:8]),
		packed:   binary.LittleEndian.Uint32(src[8:12]),
		Flags:    AccountMetaFlags(binary.LittleEndian.Uint32(src[12:16])),
	}
}

package tieredstore

import "fmt"

// AccountMetaFormat selects the physical layout of an AccountMeta entry.
// Only Hot is implemented; the others are reserved for forward
// compatibility with future footers.
type AccountMetaFormat uint32

const (
	// AccountMetaFormatHot is the only implemented variant: a 16-byte
	// entry with lamports always stored as a full 8-byte field and
	// optional fields always trailing the block (see AccountMeta).
	AccountMetaFormatHot AccountMetaFormat = 0
)

// OwnersBlockFormat selects how the owners block is laid out.
type OwnersBlockFormat uint32

const (
	// OwnersBlockFormatAddressesAndOffsets is the only implemented
	// variant: a flat array of deduplicated 32-byte addresses, resolved
	// by owner_index (§4.5).
	OwnersBlockFormatAddressesAndOffsets OwnersBlockFormat = 0
)

// AccountIndexFormat selects how the index block is laid out.
type AccountIndexFormat uint32

const (
	// AccountIndexFormatAddressAndOffset is the "AddressAndOffset"
	// variant from §4.6: two parallel arrays, addresses then offsets.
	AccountIndexFormatAddressAndOffset AccountIndexFormat = 0
)

// AccountDataBlockFormat selects the account block's data encoding.
type AccountDataBlockFormat uint32

const (
	// AccountDataBlockFormatAlignedRaw is the only active variant:
	// uncompressed bytes padded to an 8-byte boundary. A compressed
	// variant is reserved but not implemented (§4.2).
	AccountDataBlockFormatAlignedRaw AccountDataBlockFormat = 0
)

// Format selects the concrete encodings a Writer uses for a new file.
// The footer persists these four discriminants so a Reader can identify
// the variant it must decode.
type Format struct {
	AccountMetaFormat      AccountMetaFormat
	OwnersBlockFormat      OwnersBlockFormat
	AccountIndexFormat     AccountIndexFormat
	AccountDataBlockFormat AccountDataBlockFormat
}

// DefaultFormat returns the only format variant this module writes:
// hot meta, addresses-and-offsets owners, address-and-offset index,
// aligned-raw data blocks.
func DefaultFormat() Format {
	return Format{
		AccountMetaFormat:      AccountMetaFormatHot,
		OwnersBlockFormat:      OwnersBlockFormatAddressesAndOffsets,
		AccountIndexFormat:     AccountIndexFormatAddressAndOffset,
		AccountDataBlockFormat: AccountDataBlockFormatAlignedRaw,
	}
}

// validate reports ErrUnsupportedMetaFormat / ErrUnsupported for any
// discriminant this build does not implement.
func (f Format) validate(path string) error {
	if f.AccountMetaFormat != AccountMetaFormatHot {
		return &StorageError{Kind: KindUnsupportedMetaFormat, Path: path,
			Observed: fmt.Sprintf("%d", f.AccountMetaFormat)}
	}
	if f.OwnersBlockFormat != OwnersBlockFormatAddressesAndOffsets {
		return &StorageError{Kind: KindUnsupported, Path: path,
			Observed: fmt.Sprintf("owners_block_format=%d", f.OwnersBlockFormat)}
	}
	if f.AccountIndexFormat != AccountIndexFormatAddressAndOffset {
		return &StorageError{Kind: KindUnsupported, Path: path,
			Observed: fmt.Sprintf("account_index_format=%d", f.AccountIndexFormat)}
	}
	if f.AccountDataBlockFormat != AccountDataBlockFormatAlignedRaw {
		return &StorageError{Kind: KindUnsupported, Path: path,
			Observed: fmt.Sprintf("account_data_block_format=%d", f.AccountDataBlockFormat)}
	}
	return nil
}

package tieredstore

// AccountRecord is the logical account tuple a caller hands to
// [Writer.WriteAccounts] (§3.1). RentEpoch, ContentHash, and
// WriteVersion are optional: the sentinel "absent" values below cause
// the corresponding optional field to be omitted from the persisted
// block.
type AccountRecord struct {
	Address     [AddressSize]byte
	Lamports    uint64
	Owner       [AddressSize]byte
	Executable  bool
	Data        []byte
	RentEpoch   uint64      // AbsentRentEpoch means absent
	ContentHash [32]byte    // all-zero means absent
	WriteVersion uint64     // AbsentWriteVersion means absent
}

// Sentinel "absent" values for AccountRecord's optional fields (§3.1).
const (
	AbsentRentEpoch   = ^uint64(0)
	AbsentWriteVersion = ^uint64(0)
)

func (a AccountRecord) hasRentEpoch() bool   { return a.RentEpoch != AbsentRentEpoch }
func (a AccountRecord) hasWriteVersion() bool { return a.WriteVersion != AbsentWriteVersion }
func (a AccountRecord) hasContentHash() bool {
	var zero [32]byte
	return a.ContentHash != zero
}

// Account is a zero-copy view of one stored account, borrowing directly
// from the Reader's memory map. Its lifetime is tied to the Reader that
// produced it; callers needing an owned copy must clone Data and the
// optional fields themselves.
type Account struct {
	Address    [AddressSize]byte
	Lamports   uint64
	Owner      [AddressSize]byte
	Executable bool
	Data       []byte

	// RentEpoch, ContentHash, WriteVersion mirror AccountRecord's
	// optional-field convention: absent fields carry the sentinel
	// value / zero hash.
	RentEpoch    uint64
	ContentHash  [32]byte
	WriteVersion uint64
}

// StoredAccountInfo describes where one account landed in the file, as
// returned by [Writer.WriteAccounts] (§4.7 "Return shape").
type StoredAccountInfo struct {
	// Offset is (i-skip) * AlignBoundary: a logical index scaled by the
	// alignment constant, preserved for compatibility with an external
	// append-log offset convention. It is not a byte offset into the
	// file; the account's index for [Reader.GetAccount] is i-skip
	// (Offset / AlignBoundary).
	Offset uint64
	// Size is the number of bytes the account's block occupies on
	// disk.
	Size uint64
}

package tieredstore

import (
	"encoding/binary"
	"io"

	"github.com/anza-xyz/tiered-storage-go/pkg/fs"
	"lukechampine.com/blake3"
)

// Reader opens a finalized tiered storage file and services positional
// account lookups, owner-match probes, and iteration over a read-only
// memory map (§4.8). A Reader is immutable and safe for concurrent use
// by multiple goroutines.
type Reader struct {
	path   string
	file   *readOnlyFile
	footer Footer
	data   []byte

	index  indexView
	owners ownerView
}

// Open validates the magic trailer and content hash before mapping the
// file, per §4.8 "Opening": open read-only, magic check, footer load,
// hash verification, then mmap.
func Open(path string) (*Reader, error) {
	return openWithFS(fs.NewReal(), path)
}

func openWithFS(fsys fs.FS, path string) (*Reader, error) {
	f, err := newReadOnlyFile(fsys, path)
	if err != nil {
		return nil, err
	}

	r, err := openReadOnlyFile(path, f)
	if err != nil {
		_ = f.close()
		return nil, err
	}
	return r, nil
}

func openReadOnlyFile(path string, f *readOnlyFile) (*Reader, error) {
	if f.size < FooterTailSize {
		return nil, newIOError(path, io.ErrUnexpectedEOF)
	}

	tail, err := f.readTail(FooterTailSize)
	if err != nil {
		return nil, err
	}

	footerSize := binary.LittleEndian.Uint64(tail[0:8])
	formatVersion := binary.LittleEndian.Uint64(tail[8:16])
	observedMagic := binary.LittleEndian.Uint64(tail[16:24])

	if observedMagic != magicNumber {
		return nil, newMagicMismatch(path, magicNumber, observedMagic)
	}

	if formatVersion != FormatVersion {
		return nil, newUnsupportedVersion(path, formatVersion)
	}

	if footerSize != FooterStructSize {
		return nil, &StorageError{Kind: KindUnsupportedVersion, Path: path,
			Expected: "footer_size=184", Observed: "footer_size=" + itoa(footerSize)}
	}

	if f.size < int64(footerSize)+8 {
		return nil, newIOError(path, io.ErrUnexpectedEOF)
	}

	// The trailing FooterSize (= footer_size + 8-byte magic) bytes of
	// the file are exactly the footer struct's on-disk encoding
	// followed by the magic number; decode the struct portion.
	footerBuf, err := f.readTail(FooterSize)
	if err != nil {
		return nil, err
	}
	footer := decodeFooter(footerBuf[:FooterStructSize])

	if err := footer.format().validate(path); err != nil {
		return nil, err
	}

	hashedLen := f.size - 32 - FooterTailSize
	hasher := blake3.New(32, nil)
	if err := f.streamPrefix(hashedLen, hasher); err != nil {
		return nil, err
	}

	var observedHash [32]byte
	copy(observedHash[:], hasher.Sum(nil))

	if observedHash != footer.ContentHash {
		return nil, newHashMismatch(path, footer.ContentHash, observedHash)
	}

	data, err := f.mmap()
	if err != nil {
		return nil, err
	}

	index := newIndexView(data[footer.IndexBlockOffset:footer.OwnersBlockOffset], footer.AccountEntryCount)
	owners := newOwnerView(data[footer.OwnersBlockOffset : footer.OwnersBlockOffset+uint64(footer.OwnerCount)*AddressSize])

	return &Reader{
		path:   path,
		file:   f,
		footer: footer,
		data:   data,
		index:  index,
		owners: owners,
	}, nil
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Close releases the file descriptor and memory map. It never deletes
// the backing file (see readOnlyFile).
func (r *Reader) Close() error {
	return r.file.close()
}

// Footer returns the parsed footer describing this file.
func (r *Reader) Footer() Footer {
	return r.footer
}

// NumAccounts returns the number of accounts stored in the file.
func (r *Reader) NumAccounts() uint32 {
	return r.footer.AccountEntryCount
}

// AccountAddress returns the index-th account's address, read directly
// from the index block's address array (§4.8).
func (r *Reader) AccountAddress(index uint32) ([AddressSize]byte, bool) {
	if index >= r.footer.AccountEntryCount {
		return [AddressSize]byte{}, false
	}
	return r.index.address(index), true
}

// GetAccount returns the index-th account and the next index to query,
// or ok=false if index is out of range (§4.8). Iteration proceeds by
// repeatedly calling GetAccount with the returned next index until
// ok is false.
func (r *Reader) GetAccount(index uint32) (account Account, next uint32, ok bool) {
	if index >= r.footer.AccountEntryCount {
		return Account{}, 0, false
	}

	blockOffset := r.index.blockOffset(index)
	blockSize := r.index.blockSize(index, r.footer.IndexBlockOffset)
	block := r.data[blockOffset : blockOffset+blockSize]

	meta := decodeAccountMeta(block[:AccountMetaSize])
	dataLen := int(blockSize) - AccountMetaSize - int(meta.Padding()) - optionalFieldsSize(meta.Flags)

	cursor := AccountMetaSize
	data := block[cursor : cursor+dataLen]
	cursor += dataLen + int(meta.Padding())

	acc := Account{
		Address:    r.index.address(index),
		Lamports:   meta.Lamports,
		Owner:      r.owners.address(meta.OwnerIndex()),
		Executable: meta.Flags.Executable(),
		Data:       data,
		RentEpoch:  AbsentRentEpoch,
		WriteVersion: AbsentWriteVersion,
	}

	if meta.Flags.HasRentEpoch() {
		acc.RentEpoch = binary.LittleEndian.Uint64(block[cursor : cursor+8])
		cursor += 8
	}
	if meta.Flags.HasAccountHash() {
		copy(acc.ContentHash[:], block[cursor:cursor+32])
		cursor += 32
	}
	if meta.Flags.HasWriteVersion() {
		acc.WriteVersion = binary.LittleEndian.Uint64(block[cursor : cursor+8])
		cursor += 8
	}

	return acc, index + 1, true
}

func optionalFieldsSize(flags AccountMetaFlags) int {
	n := 0
	if flags.HasRentEpoch() {
		n += 8
	}
	if flags.HasAccountHash() {
		n += 32
	}
	if flags.HasWriteVersion() {
		n += 8
	}
	return n
}

// OwnerMatch is the result of AccountMatchesOwners.
type OwnerMatch int

const (
	// NoMatch means the account's owner is not in the caller's list.
	NoMatch OwnerMatch = -1
)

// AccountMatchesOwners resolves the index-th account's owner and
// returns its position within owners, or NoMatch if absent (§4.8).
func (r *Reader) AccountMatchesOwners(index uint32, owners [][AddressSize]byte) (OwnerMatch, bool) {
	if index >= r.footer.AccountEntryCount {
		return NoMatch, false
	}

	blockOffset := r.index.blockOffset(index)
	blockSize := r.index.blockSize(index, r.footer.IndexBlockOffset)
	meta := decodeAccountMeta(r.data[blockOffset : blockOffset+blockSize][:AccountMetaSize])
	owner := r.owners.address(meta.OwnerIndex())

	for i, candidate := range owners {
		if candidate == owner {
			return OwnerMatch(i), true
		}
	}
	return NoMatch, true
}

// Accounts returns every account from startIndex to the end, in order
// (§4.8). Each Account borrows from the Reader's memory map.
func (r *Reader) Accounts(startIndex uint32) []Account {
	out := make([]Account, 0, int(r.footer.AccountEntryCount)-int(startIndex))
	for i := startIndex; i < r.footer.AccountEntryCount; i++ {
		acc, _, ok := r.GetAccount(i)
		if !ok {
			break
		}
		out = append(out, acc)
	}
	return out
}

package tieredstore

import (
	"github.com/anza-xyz/tiered-storage-go/pkg/fs"
)

// Writer orchestrates the one-shot persistence of a batch of accounts
// into a new tiered storage file (§4.7). A Writer corresponds to
// exactly one file and one WriteAccounts call; a second call fails
// with ErrReadOnly.
type Writer struct {
	path   string
	format Format
	file   *writableFile

	owners *ownerTable
	index  *indexWriter

	written bool
}

// NewWriter creates path with exclusive-create semantics and returns a
// Writer ready to accept exactly one WriteAccounts call.
func NewWriter(path string, format Format) (*Writer, error) {
	return newWriterWithFS(fs.NewReal(), path, format)
}

func newWriterWithFS(fsys fs.FS, path string, format Format) (*Writer, error) {
	if err := format.validate(path); err != nil {
		return nil, err
	}

	file, err := newWritableFile(fsys, path)
	if err != nil {
		return nil, err
	}

	return &Writer{
		path:   path,
		format: format,
		file:   file,
		owners: newOwnerTable(),
		index:  newIndexWriter(),
	}, nil
}

// WriteAccounts persists batch[skip:] to the file, updating the running
// content hash, the owner table, and the index as it goes, then
// finalizes with the index block, owners block, and footer (§4.7).
//
// It may be called exactly once per Writer; a second call returns
// ErrReadOnly without touching the file again.
func (w *Writer) WriteAccounts(batch []AccountRecord, skip int) ([]StoredAccountInfo, error) {
	if w.written {
		return nil, &StorageError{Kind: KindReadOnly, Path: w.path}
	}
	w.written = true

	defer func() { _ = w.file.close() }()

	infos := make([]StoredAccountInfo, 0, len(batch)-skip)
	var cursor uint64
	var minAddr, maxAddr [AddressSize]byte
	haveRange := false

	for i := skip; i < len(batch); i++ {
		rec := batch[i]

		ownerIndex := w.owners.tryInsert(rec.Owner)

		flags := makeAccountMetaFlags(rec.hasRentEpoch(), rec.hasContentHash(), rec.hasWriteVersion(), rec.Executable)
		padding := (AlignBoundary - len(rec.Data)%AlignBoundary) % AlignBoundary

		meta := newAccountMeta(rec.Lamports, ownerIndex, uint8(padding), flags)
		block := buildAccountBlock(meta, rec.Data, rec)

		if err := w.file.writeBytes(block); err != nil {
			return nil, err
		}

		w.index.append(rec.Address, cursor)

		infos = append(infos, StoredAccountInfo{
			Offset: uint64(i-skip) * AlignBoundary,
			Size:   uint64(len(block)),
		})

		cursor += uint64(len(block))

		if !haveRange || lessAddress(rec.Address, minAddr) {
			minAddr = rec.Address
		}
		if !haveRange || lessAddress(maxAddr, rec.Address) {
			maxAddr = rec.Address
		}
		haveRange = true
	}

	indexBlockOffset := cursor
	indexBytes := w.index.encode()
	if err := w.file.writeBytes(indexBytes); err != nil {
		return nil, err
	}
	cursor += uint64(len(indexBytes))

	ownersBlockOffset := cursor
	ownerBytes := w.owners.encode()
	if uint64(len(ownerBytes)) != uint64(w.owners.count())*AddressSize {
		panic("tieredstore: owners block size mismatch")
	}
	if err := w.file.writeBytes(ownerBytes); err != nil {
		return nil, err
	}
	cursor += uint64(len(ownerBytes))

	footer := Footer{
		AccountMetaFormat:      w.format.AccountMetaFormat,
		OwnersBlockFormat:      w.format.OwnersBlockFormat,
		AccountIndexFormat:     w.format.AccountIndexFormat,
		AccountDataBlockFormat: w.format.AccountDataBlockFormat,
		AccountEntryCount:      uint32(w.index.count()),
		AccountMetaEntrySize:   AccountMetaSize,
		AccountDataBlockSize:   0, // variable-size blocks; not used by the AddressAndOffset index variant
		OwnerCount:             uint32(w.owners.count()),
		OwnerEntrySize:         AddressSize,
		IndexBlockOffset:       indexBlockOffset,
		OwnersBlockOffset:      ownersBlockOffset,
		MinAddress:             minAddr,
		MaxAddress:             maxAddr,
		FooterSize:             FooterStructSize,
		FormatVersion:          FormatVersion,
	}

	if err := w.file.writeBytes(footer.encodeBodyBeforeHash()); err != nil {
		return nil, err
	}

	hash, err := w.file.currentHash()
	if err != nil {
		return nil, err
	}
	footer.ContentHash = hash

	// content_hash is snapshotted from everything written so far, then
	// written itself — it is never folded into the hash it carries
	// (§4.3: the hashed range ends immediately before content_hash).
	if err := w.file.writeBytes(hash[:]); err != nil {
		return nil, err
	}

	tail := encodeTail(footer.FooterSize, footer.FormatVersion)
	if err := w.file.writeBytes(tail); err != nil {
		return nil, err
	}

	if err := w.file.flush(); err != nil {
		return nil, err
	}

	w.file.detach()

	return infos, nil
}

func lessAddress(a, b [AddressSize]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Package tieredstore implements the tiered account storage file format: an
// append-only, mmap-backed file holding the account records written during a
// single slot.
//
// A file is produced once by a [Writer] and never mutated again. Opening it
// with [Open] validates the magic trailer and the BLAKE3 content hash before
// any query is served, then returns a [Reader] that exposes zero-copy,
// positional access to the stored accounts.
//
// # Basic usage
//
//	w, err := tieredstore.NewWriter(path, tieredstore.DefaultFormat())
//	if err != nil {
//	    // handle err
//	}
//	infos, err := w.WriteAccounts(batch, 0)
//	if err != nil {
//	    // handle err
//	}
//
//	r, err := tieredstore.Open(path)
//	if err != nil {
//	    // handle [ErrMagicMismatch] / [ErrHashMismatch] / [ErrUnsupportedVersion]
//	}
//	defer r.Close()
//
//	acc, next, ok := r.GetAccount(0)
//
// # Concurrency
//
// A [Writer] is single-threaded, one-shot, and not safe for concurrent use.
// A [Reader] is immutable once opened and safe for concurrent use by
// multiple goroutines; every query method is a pure function of the
// underlying memory map.
//
// # Error handling
//
// All errors are returned as a [*StorageError] carrying a [Kind] and
// unwrapping to one of the sentinel errors ([ErrMagicMismatch],
// [ErrHashMismatch], [ErrUnsupportedVersion], [ErrIO], ...); classify
// with [errors.Is].
// Invariant violations at construction time (owner table overflow,
// padding overflow) panic — they indicate a programming bug, not a
// runtime condition a caller can recover from.
package tieredstore

package tieredstore

import (
	"errors"
	"fmt"
)

// Kind classifies a [*StorageError]. Tests and callers MUST classify
// errors using errors.Is against the matching sentinel below, never by
// comparing Kind values directly.
type Kind int

const (
	// KindIO indicates an underlying filesystem or memory-map failure.
	KindIO Kind = iota
	// KindMagicMismatch indicates the file does not carry the expected
	// magic trailer; also used by external dispatchers to detect a
	// non-tiered file and fall back to a legacy format.
	KindMagicMismatch
	// KindHashMismatch indicates content-hash verification failed; the
	// file is corrupt or truncated.
	KindHashMismatch
	// KindUnsupportedVersion indicates the footer's format version is
	// not recognized by this reader.
	KindUnsupportedVersion
	// KindUnsupportedMetaFormat indicates the footer's meta-format
	// discriminant refers to a retired or future variant.
	KindUnsupportedMetaFormat
	// KindReadOnly indicates WriteAccounts was invoked on an
	// already-finalized storage.
	KindReadOnly
	// KindUnsupported indicates a format-variant-specific operation is
	// not yet implemented in this build.
	KindUnsupported
)

// Sentinel errors. Every [*StorageError] unwraps to exactly one of these;
// classify with errors.Is.
var (
	ErrIO                    = errors.New("tieredstore: io")
	ErrMagicMismatch         = errors.New("tieredstore: magic number mismatch")
	ErrHashMismatch          = errors.New("tieredstore: content hash mismatch")
	ErrUnsupportedVersion    = errors.New("tieredstore: unsupported format version")
	ErrUnsupportedMetaFormat = errors.New("tieredstore: unsupported account meta format")
	ErrReadOnly              = errors.New("tieredstore: attempt to update read-only storage")
	ErrUnsupported           = errors.New("tieredstore: operation not supported by this format variant")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindIO:
		return ErrIO
	case KindMagicMismatch:
		return ErrMagicMismatch
	case KindHashMismatch:
		return ErrHashMismatch
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	case KindUnsupportedMetaFormat:
		return ErrUnsupportedMetaFormat
	case KindReadOnly:
		return ErrReadOnly
	case KindUnsupported:
		return ErrUnsupported
	default:
		return ErrIO
	}
}

// StorageError is the tagged error type returned by every fallible
// operation in this package. It carries enough context to reconstruct
// what was expected vs what was observed, per the format's error
// taxonomy.
type StorageError struct {
	Kind Kind
	Path string

	// Expected/Observed hold formatted hex or decimal context specific
	// to Kind (magic numbers, hashes, version numbers). Empty when not
	// applicable.
	Expected string
	Observed string

	// Err is the underlying cause, if any (e.g. a *fs.PathError from a
	// failed syscall).
	Err error
}

func (e *StorageError) Error() string {
	msg := sentinelFor(e.Kind).Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: path=%s", msg, e.Path)
	}
	if e.Expected != "" || e.Observed != "" {
		msg = fmt.Sprintf("%s: expected=%s observed=%s", msg, e.Expected, e.Observed)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return sentinelFor(e.Kind)
}

func newIOError(path string, err error) *StorageError {
	return &StorageError{Kind: KindIO, Path: path, Err: err}
}

func newMagicMismatch(path string, expected, observed uint64) *StorageError {
	return &StorageError{
		Kind:     KindMagicMismatch,
		Path:     path,
		Expected: fmt.Sprintf("0x%016x", expected),
		Observed: fmt.Sprintf("0x%016x", observed),
	}
}

func newHashMismatch(path string, expected, observed [32]byte) *StorageError {
	return &StorageError{
		Kind:     KindHashMismatch,
		Path:     path,
		Expected: fmt.Sprintf("%x", expected),
		Observed: fmt.Sprintf("%x", observed),
	}
}

func newUnsupportedVersion(path string, version uint64) *StorageError {
	return &StorageError{
		Kind:     KindUnsupportedVersion,
		Path:     path,
		Observed: fmt.Sprintf("%d", version),
	}
}

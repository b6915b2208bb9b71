package tieredstore

import (
	"bufio"
	"io"
	"os"
	"syscall"

	"github.com/anza-xyz/tiered-storage-go/pkg/fs"
	"lukechampine.com/blake3"
)

// writableFile is the C1/C9 writable scoped resource: an
// exclusively-created file wrapping a buffered writer and a running
// BLAKE3 hash of every byte written so far (§4.1).
//
// Go has no destructors, so the "delete on drop unless detached"
// semantics of §9 are implemented explicitly: callers must arrange
// close() to run (typically via defer) and call detach() only after
// the file has been fully and successfully finalized. If close() runs
// before detach(), the backing file is unlinked.
type writableFile struct {
	fsys fs.FS
	f    fs.File
	path string
	w    *bufio.Writer
	hash *blake3.Hasher

	written  int64
	detached bool
	closed   bool
}

// newWritableFile creates path with exclusive-create semantics: it
// fails if the path already exists (§4.1 "Re-opening a writable file
// to the same path is rejected").
func newWritableFile(fsys fs.FS, path string) (*writableFile, error) {
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, newIOError(path, err)
	}

	h := blake3.New(32, nil)

	return &writableFile{
		fsys: fsys,
		f:    f,
		path: path,
		w:    bufio.NewWriter(io.MultiWriter(f, h)),
		hash: h,
	}, nil
}

// writeBytes appends p to the file and folds it into the running hash.
// Equivalent to the spec's write_pod<T>/write_bytes.
func (wf *writableFile) writeBytes(p []byte) error {
	n, err := wf.w.Write(p)
	wf.written += int64(n)
	if err != nil {
		return newIOError(wf.path, err)
	}
	return nil
}

// currentHash flushes the buffered writer and returns the BLAKE3
// digest of every byte written so far (§4.1 current_hash()).
func (wf *writableFile) currentHash() ([32]byte, error) {
	if err := wf.w.Flush(); err != nil {
		return [32]byte{}, newIOError(wf.path, err)
	}

	var out [32]byte
	sum := wf.hash.Sum(nil)
	copy(out[:], sum)
	return out, nil
}

// flush commits buffered bytes and fsyncs the underlying file (§4.7
// step 6).
func (wf *writableFile) flush() error {
	if err := wf.w.Flush(); err != nil {
		return newIOError(wf.path, err)
	}
	if err := wf.f.Sync(); err != nil {
		return newIOError(wf.path, err)
	}
	return nil
}

// detach marks the file as successfully finalized: close() will no
// longer unlink it. Called by the Writer exactly once, after the
// magic trailer has been written (§4.9).
func (wf *writableFile) detach() {
	wf.detached = true
}

// close releases the file descriptor. If the file was never detached
// (write_accounts never completed, or the caller abandoned it), the
// backing path is unlinked so a partial file never masquerades as a
// finalized one.
func (wf *writableFile) close() error {
	if wf.closed {
		return nil
	}
	wf.closed = true

	closeErr := wf.f.Close()

	if !wf.detached {
		if err := wf.fsys.Remove(wf.path); err != nil && !os.IsNotExist(err) {
			if closeErr == nil {
				closeErr = err
			}
		}
	}

	if closeErr != nil {
		return newIOError(wf.path, closeErr)
	}
	return nil
}

// readOnlyFile is the C1/C9 read-only scoped resource. It opens in
// read mode and, once the caller has verified the magic trailer and
// content hash, exposes a read-only memory map for zero-copy queries.
//
// Unlike writableFile, a readOnlyFile never deletes its backing path on
// close: a Reader is routinely opened many times against the same
// finalized file (§8.1 "Idempotence of open"), and a production reader
// closing must never destroy data it merely queried. The original
// implementation's read-side file type (TieredReadableFile) carries no
// delete-on-drop logic either; only the writable side does, and only
// until finalization clears it.
type readOnlyFile struct {
	fsys fs.FS
	f    fs.File
	path string
	size int64

	data   []byte // mmap, nil until mmap() succeeds
	closed bool
}

func newReadOnlyFile(fsys fs.FS, path string) (*readOnlyFile, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, newIOError(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, newIOError(path, err)
	}

	return &readOnlyFile{fsys: fsys, f: f, path: path, size: info.Size()}, nil
}

// readTail seeks to size-n and reads the last n bytes of the file,
// used to locate and parse the footer (§4.3). It moves the file's read
// position.
func (rf *readOnlyFile) readTail(n int64) ([]byte, error) {
	if n > rf.size {
		return nil, newIOError(rf.path, io.ErrUnexpectedEOF)
	}

	buf := make([]byte, n)
	if _, err := rf.f.Seek(rf.size-n, io.SeekStart); err != nil {
		return nil, newIOError(rf.path, err)
	}
	if _, err := io.ReadFull(rf.f, buf); err != nil {
		return nil, newIOError(rf.path, err)
	}
	return buf, nil
}

// streamPrefix re-streams the file's bytes from offset 0 up to end
// (exclusive) in 4 KiB chunks, feeding each chunk to w. Used to
// recompute the content hash over the hashed prefix (§4.3 step c).
func (rf *readOnlyFile) streamPrefix(end int64, w io.Writer) error {
	if _, err := rf.f.Seek(0, io.SeekStart); err != nil {
		return newIOError(rf.path, err)
	}

	const chunkSize = 4096
	remaining := end
	buf := make([]byte, chunkSize)

	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(rf.f, buf[:n]); err != nil {
			return newIOError(rf.path, err)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return newIOError(rf.path, err)
		}
		remaining -= n
	}
	return nil
}

// mmap maps the whole file read-only and returns the mapping. The
// readOnlyFile retains ownership; Close unmaps it.
func (rf *readOnlyFile) mmap() ([]byte, error) {
	if rf.size == 0 {
		rf.data = []byte{}
		return rf.data, nil
	}

	data, err := syscall.Mmap(int(rf.f.Fd()), 0, int(rf.size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, newIOError(rf.path, err)
	}

	rf.data = data
	return data, nil
}

func (rf *readOnlyFile) close() error {
	if rf.closed {
		return nil
	}
	rf.closed = true

	var err error
	if rf.data != nil {
		if uerr := syscall.Munmap(rf.data); uerr != nil {
			err = uerr
		}
		rf.data = nil
	}

	if cerr := rf.f.Close(); cerr != nil && err == nil {
		err = cerr
	}

	if err != nil {
		return newIOError(rf.path, err)
	}
	return nil
}

package tieredstore_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anza-xyz/tiered-storage-go/pkg/tieredstore"
)

func Test_Corrupted_Account_Data_Fails_Hash_Verification_On_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.tiered")
	w, err := tieredstore.NewWriter(path, tieredstore.DefaultFormat())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	records := []tieredstore.AccountRecord{{
		Address:      newAddress(1),
		Lamports:     1,
		Owner:        newAddress(2),
		Data:         []byte{1, 2, 3, 4, 5, 6, 7, 8},
		RentEpoch:    tieredstore.AbsentRentEpoch,
		WriteVersion: tieredstore.AbsentWriteVersion,
	}}
	if _, err := w.WriteAccounts(records, 0); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}

	// Flip one byte inside the account data region, which starts
	// AccountMetaSize bytes in (well before the footer/tail).
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xFF}, tieredstore.AccountMetaSize); err != nil {
		t.Fatalf("corrupt byte: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = tieredstore.Open(path)
	if !errors.Is(err, tieredstore.ErrHashMismatch) {
		t.Fatalf("Open after corruption: err=%v, want ErrHashMismatch", err)
	}
}

func Test_Open_Fails_With_MagicMismatch_When_Trailer_Is_Wrong(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-tiered.bin")

	buf := make([]byte, tieredstore.FooterTailSize)
	binary.LittleEndian.PutUint64(buf[0:8], tieredstore.FooterStructSize)
	binary.LittleEndian.PutUint64(buf[8:16], tieredstore.FormatVersion)
	binary.LittleEndian.PutUint64(buf[16:24], 0xDEADBEEF)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fake file: %v", err)
	}

	_, err := tieredstore.Open(path)
	if !errors.Is(err, tieredstore.ErrMagicMismatch) {
		t.Fatalf("Open: err=%v, want ErrMagicMismatch", err)
	}
}

func Test_Opening_Same_File_Twice_Yields_Identical_Results(t *testing.T) {
	t.Parallel()

	records := []tieredstore.AccountRecord{{
		Address:      newAddress(3),
		Lamports:     42,
		Owner:        newAddress(4),
		Data:         []byte{9, 9, 9},
		RentEpoch:    tieredstore.AbsentRentEpoch,
		WriteVersion: tieredstore.AbsentWriteVersion,
	}}

	r1, path := writeAndOpen(t, records)

	r2, err := tieredstore.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	t.Cleanup(func() { _ = r2.Close() })

	acc1, _, ok1 := r1.GetAccount(0)
	acc2, _, ok2 := r2.GetAccount(0)

	if ok1 != ok2 || acc1.Address != acc2.Address || acc1.Lamports != acc2.Lamports {
		t.Fatalf("readers disagree: (%v,%v) vs (%v,%v)", acc1, ok1, acc2, ok2)
	}
}

func Test_AccountMatchesOwners_Reports_Position_Or_NoMatch(t *testing.T) {
	t.Parallel()

	ownerA := newAddress(10)
	ownerB := newAddress(20)
	records := []tieredstore.AccountRecord{{
		Address:      newAddress(1),
		Lamports:     1,
		Owner:        ownerA,
		Data:         []byte{1},
		RentEpoch:    tieredstore.AbsentRentEpoch,
		WriteVersion: tieredstore.AbsentWriteVersion,
	}}

	r, _ := writeAndOpen(t, records)

	pos, ok := r.AccountMatchesOwners(0, [][32]byte{ownerB, ownerA})
	if !ok || pos != 1 {
		t.Fatalf("pos=%d, ok=%v, want pos=1, ok=true", pos, ok)
	}

	pos, ok = r.AccountMatchesOwners(0, [][32]byte{ownerB})
	if !ok || pos != tieredstore.NoMatch {
		t.Fatalf("pos=%d, ok=%v, want pos=NoMatch, ok=true", pos, ok)
	}
}

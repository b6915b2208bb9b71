package tieredstore

import "testing"

func Test_AccountMeta_RoundTrips_Through_Encode_Decode(t *testing.T) {
	meta := newAccountMeta(123456789, 42, 5, makeAccountMetaFlags(true, false, true, true))

	var buf [AccountMetaSize]byte
	meta.encode(buf[:])

	got := decodeAccountMeta(buf[:])

	if got.Lamports != meta.Lamports {
		t.Fatalf("lamports=%d, want=%d", got.Lamports, meta.Lamports)
	}
	if got.Padding() != 5 {
		t.Fatalf("padding=%d, want=5", got.Padding())
	}
	if got.OwnerIndex() != 42 {
		t.Fatalf("owner_index=%d, want=42", got.OwnerIndex())
	}
	if !got.Flags.HasRentEpoch() || got.Flags.HasAccountHash() || !got.Flags.HasWriteVersion() || !got.Flags.Executable() {
		t.Fatalf("flags=%v, want has_rent_epoch+has_write_version+executable only", got.Flags)
	}
}

func Test_AccountMeta_Packed_Word_Puts_Padding_In_High_Three_Bits(t *testing.T) {
	meta := newAccountMeta(0, maxOwnerIndex, maxPadding, 0)

	if got, want := meta.packed, uint32(maxPadding)<<29|uint32(maxOwnerIndex); got != want {
		t.Fatalf("packed=0x%08x, want=0x%08x", got, want)
	}
}

func Test_NewAccountMeta_Panics_On_Padding_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on padding overflow")
		}
	}()

	newAccountMeta(0, 0, maxPadding+1, 0)
}

func Test_NewAccountMeta_Panics_On_Owner_Index_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on owner index overflow")
		}
	}()

	newAccountMeta(0, maxOwnerIndex+1, 0, 0)
}

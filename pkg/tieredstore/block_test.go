package tieredstore

import "testing"

func Test_BuildAccountBlock_Pads_To_Eight_Byte_Boundary(t *testing.T) {
	cases := []struct {
		dataLen int
		padding int
	}{
		{0, 0},
		{8, 0},
		{7, 1},
		{9, 7},
		{1, 7},
	}

	for _, c := range cases {
		data := make([]byte, c.dataLen)
		meta := newAccountMeta(1, 0, uint8(c.padding), 0)
		block := buildAccountBlock(meta, data, AccountRecord{RentEpoch: AbsentRentEpoch, WriteVersion: AbsentWriteVersion})

		wantLen := AccountMetaSize + c.dataLen + c.padding
		if len(block) != wantLen {
			t.Fatalf("dataLen=%d: block len=%d, want=%d", c.dataLen, len(block), wantLen)
		}
		if (c.dataLen+c.padding)%AlignBoundary != 0 {
			t.Fatalf("dataLen=%d: (data+padding) not 8-byte aligned", c.dataLen)
		}
	}
}

func Test_BuildAccountBlock_Appends_Optional_Fields_In_Fixed_Order(t *testing.T) {
	flags := makeAccountMetaFlags(true, true, true, false)
	meta := newAccountMeta(1, 0, 0, flags)

	rec := AccountRecord{
		RentEpoch:    7,
		ContentHash:  [32]byte{1, 2, 3},
		WriteVersion: 9,
	}
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22} // 8 bytes, no padding

	block := buildAccountBlock(meta, data, rec)

	wantLen := AccountMetaSize + len(data) + 8 + 32 + 8
	if len(block) != wantLen {
		t.Fatalf("len=%d, want=%d", len(block), wantLen)
	}

	cursor := AccountMetaSize + len(data)
	if got := block[cursor : cursor+8]; got[0] != 7 {
		t.Fatalf("rent_epoch not at expected offset: %v", got)
	}
	cursor += 8
	if got := block[cursor : cursor+32]; got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("account_hash not at expected offset: %v", got)
	}
	cursor += 32
	if got := block[cursor : cursor+8]; got[0] != 9 {
		t.Fatalf("write_version not at expected offset: %v", got)
	}
}

package tieredstore

import "testing"

func Test_Footer_Sizes_Match_Format(t *testing.T) {
	if got, want := FooterStructSize, 184; got != want {
		t.Fatalf("FooterStructSize=%d, want=%d", got, want)
	}
	if got, want := FooterTailSize, 24; got != want {
		t.Fatalf("FooterTailSize=%d, want=%d", got, want)
	}
	if got, want := FooterSize, 192; got != want {
		t.Fatalf("FooterSize=%d, want=%d", got, want)
	}
}

func Test_Footer_RoundTrips_Through_Encode_Decode(t *testing.T) {
	f := Footer{
		AccountMetaFormat:      AccountMetaFormatHot,
		OwnersBlockFormat:      OwnersBlockFormatAddressesAndOffsets,
		AccountIndexFormat:     AccountIndexFormatAddressAndOffset,
		AccountDataBlockFormat: AccountDataBlockFormatAlignedRaw,
		AccountEntryCount:      10,
		AccountMetaEntrySize:   AccountMetaSize,
		AccountDataBlockSize:   0,
		OwnerCount:             3,
		OwnerEntrySize:         AddressSize,
		IndexBlockOffset:       4096,
		OwnersBlockOffset:      5000,
		FooterSize:             FooterStructSize,
		FormatVersion:          FormatVersion,
	}
	for i := range f.MinAddress {
		f.MinAddress[i] = byte(i)
		f.MaxAddress[i] = byte(255 - i)
		f.ContentHash[i%32] = byte(i * 7)
	}

	buf := f.encode()
	if len(buf) != FooterStructSize {
		t.Fatalf("encode len=%d, want=%d", len(buf), FooterStructSize)
	}

	got := decodeFooter(buf)
	if got != f {
		t.Fatalf("decodeFooter(encode(f)) = %+v, want %+v", got, f)
	}
}

func Test_Footer_EncodeBodyBeforeHash_Excludes_ContentHash(t *testing.T) {
	f := Footer{}
	f.ContentHash[0] = 0xAB

	body := f.encodeBodyBeforeHash()
	if len(body) != FooterBodySize-32 {
		t.Fatalf("len=%d, want=%d", len(body), FooterBodySize-32)
	}

	for _, b := range body {
		if b == 0xAB {
			t.Fatalf("content hash byte leaked into pre-hash body")
		}
	}
}

package loader

import (
	"testing"
)

func TestDetectIntelHex(t *testing.T) {
	data := []byte(":0401000001020304F1\n:00000001FF\n")
	got, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Format != FormatIntelHex {
		t.Fatalf("format = %v, want intel_hex", got.Format)
	}
	if len(got.Regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(got.Regions))
	}
	r := got.Regions[0]
	if r.Start != 0x0100 {
		t.Errorf("start = %#04x, want $0100", r.Start)
	}
	want := []uint8{0x01, 0x02, 0x03, 0x04}
	if len(r.Bytes) != len(want) {
		t.Fatalf("bytes = %v, want %v", r.Bytes, want)
	}
	for i := range want {
		if r.Bytes[i] != want[i] {
			t.Errorf("byte %d = %#02x, want %#02x", i, r.Bytes[i], want[i])
		}
	}
	if got.Entry != 0x0100 {
		t.Errorf("entry = %#04x, want $0100", got.Entry)
	}
}

func TestIntelHexChecksumError(t *testing.T) {
	data := []byte(":0401000001020304FF\n:00000001FF\n")
	_, err := Parse(data, Options{})
	if _, ok := err.(ChecksumError); !ok {
		t.Fatalf("err = %v (%T), want ChecksumError", err, err)
	}
}

func TestParseCMD(t *testing.T) {
	data := []uint8{0x01, 0x04, 0x00, 0x40, 0xC3, 0xC9, 0x02, 0x02, 0x00, 0x40}
	got, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Format != FormatCMD {
		t.Fatalf("format = %v, want cmd", got.Format)
	}
	if len(got.Regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(got.Regions))
	}
	r := got.Regions[0]
	if r.Start != 0x4000 {
		t.Errorf("start = %#04x, want $4000", r.Start)
	}
	want := []uint8{0xC3, 0xC9}
	if len(r.Bytes) != len(want) || r.Bytes[0] != want[0] || r.Bytes[1] != want[1] {
		t.Errorf("bytes = %v, want %v", r.Bytes, want)
	}
	if got.Entry != 0x4000 {
		t.Errorf("entry = %#04x, want $4000", got.Entry)
	}
}

func TestCMDUnknownRecordType(t *testing.T) {
	data := []uint8{0x05, 0x02, 0x00, 0x00}
	_, err := Parse(data, Options{ForceFormat: FormatCMD})
	if _, ok := err.(UnknownRecordType); !ok {
		t.Fatalf("err = %v (%T), want UnknownRecordType", err, err)
	}
}

func TestWozHexDump(t *testing.T) {
	data := []byte("0280: A9 00 8D 00 02 4C 80 02\n")
	got, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Format != FormatWozHex {
		t.Fatalf("format = %v, want woz_hex", got.Format)
	}
	if len(got.Regions) != 1 || got.Regions[0].Start != 0x0280 {
		t.Fatalf("regions = %+v, want one region at $0280", got.Regions)
	}
	if len(got.Regions[0].Bytes) != 8 {
		t.Fatalf("bytes = %d, want 8", len(got.Regions[0].Bytes))
	}
}

func TestWozHexDumpWithComment(t *testing.T) {
	data := []byte("# a comment\n0280: A9 00 // trailing note\n")
	got, err := Parse(data, Options{ForceFormat: FormatWozHex})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Regions) != 1 || len(got.Regions[0].Bytes) != 2 {
		t.Fatalf("regions = %+v, want one region of 2 bytes", got.Regions)
	}
}

func TestPlainTextBASIC(t *testing.T) {
	data := []byte("10 PRINT \"HELLO\"\n20 GOTO 10\n")
	got, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Format != FormatPlainBAS {
		t.Fatalf("format = %v, want plain_bas", got.Format)
	}
	if got.Listing != "10 PRINT \"HELLO\"\n20 GOTO 10" {
		t.Errorf("listing = %q", got.Listing)
	}
	if len(got.Regions) != 0 {
		t.Errorf("regions = %+v, want none", got.Regions)
	}
}

func TestTokenizedBASRoundTrip(t *testing.T) {
	// Line 10: PRINT "HI"
	line := []uint8{}
	line = append(line, 0x00, 0x00) // next-ptr placeholder, patched below
	line = append(line, 0x0A, 0x00) // line number 10
	line = append(line, 0xB2)       // PRINT token
	line = append(line, '"', 'H', 'I', '"')
	line = append(line, 0x00) // line terminator

	header := []uint8{0xD3, 0xD3, 0xD3, 0x01}
	data := append(append([]uint8{}, header...), line...)
	data = append(data, 0x00, 0x00, 0x00, 0x00) // end of program marker: next-ptr=0, line-number=0

	got, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Format != FormatTokenizedBAS {
		t.Fatalf("format = %v, want tokenized_bas", got.Format)
	}
	if got.Entry != 0 {
		t.Errorf("entry = %#04x, want 0", got.Entry)
	}
	if len(got.Regions) != 1 || got.Regions[0].Start != basProgramArea {
		t.Fatalf("regions = %+v, want one region at $4A00", got.Regions)
	}
	wantListing := "10 PRINT\"HI\"\n"
	if got.Listing != wantListing {
		t.Errorf("listing = %q, want %q", got.Listing, wantListing)
	}
}

func TestRawBinaryNoInferenceWithoutLeadingJMP(t *testing.T) {
	data := []uint8{0xA9, 0x00, 0x8D, 0x00, 0x02}
	got, err := Parse(data, Options{ForceFormat: FormatRawBinary, DefaultLoadAddress: 0x0300, HasDefaultLoadAddress: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Entry != 0x0300 || got.Regions[0].Start != 0x0300 {
		t.Fatalf("got = %+v, want verbatim load at $0300", got)
	}
}

func TestRawBinaryLoadAddressInference(t *testing.T) {
	data := make([]uint8, 1962)
	data[0] = 0x4C
	data[1] = 0x12
	data[2] = 0x0A // JMP $0A12
	// Two ADC $0283,Y references inside the first 512 bytes.
	data[10] = 0x79
	data[11] = 0x83
	data[12] = 0x02
	data[20] = 0x79
	data[21] = 0x83
	data[22] = 0x02

	got, err := Parse(data, Options{ForceFormat: FormatRawBinary, DefaultLoadAddress: 0x0300, HasDefaultLoadAddress: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Entry != 0x0280 {
		t.Errorf("entry = %#04x, want $0280", got.Entry)
	}
	if len(got.Regions) == 0 || got.Regions[0].Start != 0x0280 {
		t.Fatalf("regions = %+v, want start $0280", got.Regions)
	}
}

func TestRawBinaryJMPTargetOutsideRange(t *testing.T) {
	data := make([]uint8, 16)
	data[0] = 0x4C
	data[1] = 0x00
	data[2] = 0x20 // JMP $2000, far outside any small loaded range
	got, err := Parse(data, Options{ForceFormat: FormatRawBinary, DefaultLoadAddress: 0x0300, HasDefaultLoadAddress: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Entry == 0x0300 {
		t.Errorf("expected inference to move load address away from $0300, got %#04x", got.Entry)
	}
}

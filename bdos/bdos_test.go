package bdos

import (
	"os"
	"path/filepath"
	"testing"
)

// buildConOutProgram returns a tiny .COM image that prints "HI" via BDOS
// function 2 one character at a time, then returns (falling through to the
// warm-boot HALT the harness installs at $0000).
func buildConOutProgram() []byte {
	return []byte{
		0x0E, 0x02, // MVI C,2 / LD C,2
		0x1E, 'H', // MVI E,'H' / LD E,'H'
		0xCD, 0x05, 0x00, // CALL $0005
		0x1E, 'I', // MVI E,'I' / LD E,'I'
		0xCD, 0x05, 0x00, // CALL $0005
		0xC9, // RET -> falls to warm boot
	}
}

// buildPrintStringProgram prints "OK$" via BDOS function 9.
func buildPrintStringProgram() []byte {
	img := []byte{
		0x0E, 0x09, // MVI/LD C,9
		0x11, 0x09, 0x01, // LXI/LD DE,$0109 (string right after this code)
		0xCD, 0x05, 0x00, // CALL $0005
		0xC9, // RET
	}
	img = append(img, 'O', 'K', '$')
	return img
}

func TestConOutIntercept8080(t *testing.T) {
	res, err := Run(Config{Image: buildConOutProgram(), Target: Target8080, MaxCycles: 100000, MaxInstructions: 10000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reason != Complete {
		t.Fatalf("Reason = %v, want Complete", res.Reason)
	}
	if res.Output != "HI" {
		t.Fatalf("Output = %q, want %q", res.Output, "HI")
	}
}

func TestConOutInterceptZ80(t *testing.T) {
	res, err := Run(Config{Image: buildConOutProgram(), Target: TargetZ80, MaxCycles: 100000, MaxInstructions: 10000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "HI" {
		t.Fatalf("Output = %q, want %q", res.Output, "HI")
	}
}

func TestPrintStringIntercept(t *testing.T) {
	res, err := Run(Config{Image: buildPrintStringProgram(), Target: Target8080, MaxCycles: 100000, MaxInstructions: 10000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "OK" {
		t.Fatalf("Output = %q, want %q", res.Output, "OK")
	}
}

func TestOnCharCallback(t *testing.T) {
	var seen []byte
	_, err := Run(Config{
		Image:           buildConOutProgram(),
		Target:          Target8080,
		MaxCycles:       100000,
		MaxInstructions: 10000,
		OnChar:          func(b byte) { seen = append(seen, b) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(seen) != "HI" {
		t.Fatalf("callback saw %q, want %q", seen, "HI")
	}
}

func TestInstructionLimit(t *testing.T) {
	img := make([]byte, 16)
	for i := range img {
		img[i] = 0x00 // NOP forever, never falls to the warm-boot trap
	}
	res, err := Run(Config{Image: img, Target: Target8080, MaxInstructions: 5, MaxCycles: 1_000_000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reason != InstructionLimit {
		t.Fatalf("Reason = %v, want InstructionLimit", res.Reason)
	}
}

func TestParseOutputPassAndFailGroups(t *testing.T) {
	output := "Z80 instruction exerciser\n" +
		"adc,sbc<hl>,<bc> ........  OK\n" +
		"add hl,<bc> ........  ERROR **** crc expected:12345678 found:87654321\n" +
		"\n"
	groups := parseOutput(output)
	if len(groups) != 2 {
		t.Fatalf("groups = %+v, want 2", groups)
	}
	if !groups[0].Pass || groups[0].Name != "adc,sbc<hl>,<bc>" {
		t.Errorf("group 0 = %+v", groups[0])
	}
	if groups[1].Pass || !groups[1].HasCRC || groups[1].ExpectedCRC != "12345678" || groups[1].ActualCRC != "87654321" {
		t.Errorf("group 1 = %+v", groups[1])
	}
}

// TestZexdocFixture exercises the real zexdoc.com exerciser when present in
// testdata/; skipped otherwise so the suite stays green without the binary
// fixture vendored in.
func TestZexdocFixture(t *testing.T) {
	path := filepath.Join("testdata", "zexdoc.com")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("fixture not present: %v", err)
	}
	res, err := Run(Config{
		Image:           data,
		Target:          TargetZ80,
		MaxCycles:       50_000_000_000,
		MaxInstructions: 10_000_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FailCount != 0 {
		t.Fatalf("zexdoc reported %d failing groups: %+v", res.FailCount, res.Groups)
	}
}

// TestEightyEightyExerciserFixture exercises 8080EX1.COM when present.
func TestEightyEightyExerciserFixture(t *testing.T) {
	path := filepath.Join("testdata", "8080EX1.COM")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("fixture not present: %v", err)
	}
	res, err := Run(Config{
		Image:           data,
		Target:          Target8080,
		MaxCycles:       50_000_000_000,
		MaxInstructions: 10_000_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FailCount != 0 {
		t.Fatalf("8080EX1 reported %d failing groups: %+v", res.FailCount, res.Groups)
	}
}

package functest

import (
	"os"
	"path/filepath"
	"testing"
)

// buildSelfJumpImage returns a 64KiB image with a JMP $trap at address
// trap and a JMP $trap at entry leading straight into it, enough to
// exercise the harness without the real fixture.
func buildSelfJumpImage(entry, trap uint16) []byte {
	img := make([]byte, 1<<16)
	img[entry] = 0x4C // JMP abs
	img[entry+1] = byte(trap)
	img[entry+2] = byte(trap >> 8)
	img[trap] = 0x4C
	img[trap+1] = byte(trap)
	img[trap+2] = byte(trap >> 8)
	return img
}

func TestSelfJumpTrapSuccess(t *testing.T) {
	const entry, trap = 0x0400, 0x3469
	res, err := Run(Config{
		Image:           buildSelfJumpImage(entry, trap),
		Entry:           entry,
		Success:         trap,
		MaxCycles:       1_000_000,
		MaxInstructions: 1_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reason != Trapped {
		t.Fatalf("Reason = %v, want Trapped", res.Reason)
	}
	if !res.Success {
		t.Fatalf("expected Success, trap address %#x", res.TrapAddress)
	}
}

func TestSelfJumpTrapFailure(t *testing.T) {
	const entry, trap, success = 0x0400, 0x1234, 0x3469
	res, err := Run(Config{
		Image:           buildSelfJumpImage(entry, trap),
		Entry:           entry,
		Success:         success,
		MaxCycles:       1_000_000,
		MaxInstructions: 1_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure, trapped at %#x which isn't success %#x", res.TrapAddress, success)
	}
}

func TestInstructionLimit(t *testing.T) {
	img := make([]byte, 1<<16)
	for i := 0x0400; i < 0x0500; i++ {
		img[i] = 0xEA // NOP forever, never traps
	}
	res, err := Run(Config{
		Image:           img,
		Entry:           0x0400,
		MaxInstructions: 10,
		MaxCycles:       1_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reason != InstructionLimit {
		t.Fatalf("Reason = %v, want InstructionLimit", res.Reason)
	}
}

// TestKlausDormannFixture exercises the real exerciser ROM when present in
// testdata/; it's skipped otherwise so the suite stays green without the
// binary fixture vendored in.
func TestKlausDormannFixture(t *testing.T) {
	path := filepath.Join("testdata", "6502_functional_test.bin")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("fixture not present: %v", err)
	}
	res, err := Run(Config{
		Image:           data,
		Entry:           0x0400,
		Success:         0x3469,
		MaxCycles:       200_000_000,
		MaxInstructions: 100_000_000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success {
		t.Fatalf("functional test failed: trapped at %#x after %d instructions", res.TrapAddress, res.Instructions)
	}
}

// Package bdos drives CP/M BDOS-console exercisers (zexdoc, zexall,
// 8080EX1 and similar) against the 8080 and Z80 cores. It stands up a flat
// 64KiB CP/M-shaped environment, intercepts the two console BDOS calls
// these programs rely on (function 2: print character, function 9: print
// $-terminated string), and runs to completion or a configured ceiling.
package bdos

import (
	"bytes"
	"fmt"

	"github.com/cpirich/retrocore/cpu8080"
	"github.com/cpirich/retrocore/io"
	"github.com/cpirich/retrocore/memory"
	"github.com/cpirich/retrocore/z80"
)

// Target selects which core drives the .COM image.
type Target int

const (
	Target8080 Target = iota
	TargetZ80
)

// TerminationReason enumerates why Run stopped.
type TerminationReason int

const (
	// Complete means the warm-boot trap at $0000 was reached.
	Complete TerminationReason = iota
	CycleLimit
	InstructionLimit
)

func (r TerminationReason) String() string {
	switch r {
	case Complete:
		return "complete"
	case CycleLimit:
		return "cycle_limit"
	case InstructionLimit:
		return "instruction_limit"
	}
	return "unknown"
}

// Config configures a run.
type Config struct {
	// Image is the raw .COM file, loaded verbatim at $0100.
	Image []byte
	Target Target
	// MaxCycles and MaxInstructions bound the run; zero means unbounded in
	// that dimension. Callers should usually set at least one.
	MaxCycles       uint64
	MaxInstructions uint64
	// OnChar, if set, is invoked for every console byte as it's emitted,
	// in addition to it being appended to Result.Output.
	OnChar func(byte)
}

// Result reports the outcome of a Run.
type Result struct {
	Reason       TerminationReason
	Cycles       uint64
	Instructions uint64
	Output       string
	Groups       []Group
	PassCount    int
	FailCount    int
}

const (
	warmBoot  = 0x0000
	bdosEntry = 0x0005
	comLoad   = 0x0100
	bdosConOut = 2
	bdosPrintString = 9
	stringTerm = 0x24 // '$'
)

// Run loads cfg.Image at $0100 on the selected core and runs until the
// warm-boot trap or a configured ceiling is hit.
func Run(cfg Config) (Result, error) {
	if len(cfg.Image) > 0xFF00 {
		return Result{}, fmt.Errorf("bdos: image too large for CP/M TPA: %d bytes", len(cfg.Image))
	}
	switch cfg.Target {
	case Target8080:
		return run8080(cfg)
	case TargetZ80:
		return runZ80(cfg)
	default:
		return Result{}, fmt.Errorf("bdos: unknown target %d", cfg.Target)
	}
}

func newEnvironment(image []byte) *memory.RAM {
	ram := memory.NewFlat64K()
	ram.PowerOn()
	ram.LoadAt(comLoad, image)
	ram.Write(warmBoot, 0x76)  // HALT
	ram.Write(bdosEntry, 0xC9) // RET
	return ram
}

func run8080(cfg Config) (Result, error) {
	ram := newEnvironment(cfg.Image)
	c := cpu8080.New(ram, io.NullBus{})
	c.Reset()
	c.SP = 0xFFFE - 2
	ram.Write(c.SP, 0x00)
	ram.Write(c.SP+1, 0x00)
	c.PC = comLoad

	var out bytes.Buffer
	reason := Complete
	var instrs uint64
	for {
		if c.PC == warmBoot {
			break
		}
		if c.PC == bdosEntry {
			switch c.C {
			case bdosConOut:
				emit(&out, cfg.OnChar, c.E&0x7F)
			case bdosPrintString:
				printDollarString(ram, uint16(c.D)<<8|uint16(c.E), &out, cfg.OnChar)
			}
		}
		c.Step()
		instrs++
		if cfg.MaxCycles != 0 && c.Cycles() >= cfg.MaxCycles {
			reason = CycleLimit
			break
		}
		if cfg.MaxInstructions != 0 && instrs >= cfg.MaxInstructions {
			reason = InstructionLimit
			break
		}
	}
	return buildResult(reason, c.Cycles(), instrs, out.String()), nil
}

func runZ80(cfg Config) (Result, error) {
	ram := newEnvironment(cfg.Image)
	c := z80.New(ram, io.NullBus{})
	c.Reset()
	c.SP = 0xFFFE - 2
	ram.Write(c.SP, 0x00)
	ram.Write(c.SP+1, 0x00)
	c.PC = comLoad

	var out bytes.Buffer
	reason := Complete
	var instrs uint64
	for {
		if c.PC == warmBoot {
			break
		}
		if c.PC == bdosEntry {
			switch c.C {
			case bdosConOut:
				emit(&out, cfg.OnChar, c.E&0x7F)
			case bdosPrintString:
				printDollarString(ram, uint16(c.D)<<8|uint16(c.E), &out, cfg.OnChar)
			}
		}
		c.Step()
		instrs++
		if cfg.MaxCycles != 0 && c.Cycles() >= cfg.MaxCycles {
			reason = CycleLimit
			break
		}
		if cfg.MaxInstructions != 0 && instrs >= cfg.MaxInstructions {
			reason = InstructionLimit
			break
		}
	}
	return buildResult(reason, c.Cycles(), instrs, out.String()), nil
}

func emit(out *bytes.Buffer, onChar func(byte), b byte) {
	out.WriteByte(b)
	if onChar != nil {
		onChar(b)
	}
}

func printDollarString(mem memory.Memory, addr uint16, out *bytes.Buffer, onChar func(byte)) {
	for {
		b := mem.Read(addr)
		if b == stringTerm {
			return
		}
		emit(out, onChar, b)
		addr++
	}
}

func buildResult(reason TerminationReason, cycles, instrs uint64, output string) Result {
	groups := parseOutput(output)
	res := Result{
		Reason:       reason,
		Cycles:       cycles,
		Instructions: instrs,
		Output:       output,
		Groups:       groups,
	}
	for _, g := range groups {
		if g.Pass {
			res.PassCount++
		} else {
			res.FailCount++
		}
	}
	return res
}

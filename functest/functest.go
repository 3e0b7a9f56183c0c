// Package functest drives Klaus Dormann's 6502 functional-test exerciser:
// load a full 64KiB image, set PC to a conventional entry point, and run
// until the program traps in a JMP-to-self loop. Success is judged by
// comparing the trap address against a caller-supplied success address.
package functest

import (
	"fmt"

	"github.com/cpirich/retrocore/cpu6502"
	"github.com/cpirich/retrocore/memory"
)

// TerminationReason enumerates why Run stopped.
type TerminationReason int

const (
	// Trapped means the CPU reached a JMP-to-self loop (PC == previous PC).
	Trapped TerminationReason = iota
	// CycleLimit means max cycles were exhausted before a trap.
	CycleLimit
	// InstructionLimit means max instructions were exhausted before a trap.
	InstructionLimit
)

func (r TerminationReason) String() string {
	switch r {
	case Trapped:
		return "trapped"
	case CycleLimit:
		return "cycle_limit"
	case InstructionLimit:
		return "instruction_limit"
	}
	return "unknown"
}

// Result reports the outcome of a Run.
type Result struct {
	Reason       TerminationReason
	TrapAddress  uint16
	Success      bool
	Cycles       uint64
	Instructions uint64
}

// Config configures a run.
type Config struct {
	// Image is the full 64KiB memory image to load verbatim at offset 0.
	Image []byte
	// Entry is the PC value to start at (Klaus Dormann's test conventionally
	// uses $0400).
	Entry uint16
	// Success is the PC value a self-jump trap must equal to count as a
	// pass; any other repeated PC is a failure.
	Success uint16
	// MaxCycles and MaxInstructions bound the run; zero means unbounded in
	// that dimension. Callers should usually set at least one.
	MaxCycles       uint64
	MaxInstructions uint64
}

// Run executes cfg.Image on a fresh 6502 core until a self-jump trap is
// observed or a configured limit is hit.
func Run(cfg Config) (Result, error) {
	if len(cfg.Image) > 1<<16 {
		return Result{}, fmt.Errorf("functest: image too large: %d bytes", len(cfg.Image))
	}
	ram := memory.NewFlat64K()
	ram.PowerOn()
	ram.LoadAt(0, cfg.Image)

	c := cpu6502.New(ram, nil, nil)
	c.Reset()
	c.PC = cfg.Entry

	var prevPC uint16
	first := true
	var instrs uint64
	for {
		pc := c.PC
		if !first && pc == prevPC {
			res := Result{
				Reason:       Trapped,
				TrapAddress:  pc,
				Success:      pc == cfg.Success,
				Cycles:       c.Cycles(),
				Instructions: instrs,
			}
			return res, nil
		}
		first = false
		prevPC = pc

		c.Step()
		instrs++

		if cfg.MaxCycles != 0 && c.Cycles() >= cfg.MaxCycles {
			return Result{Reason: CycleLimit, Cycles: c.Cycles(), Instructions: instrs}, nil
		}
		if cfg.MaxInstructions != 0 && instrs >= cfg.MaxInstructions {
			return Result{Reason: InstructionLimit, Cycles: c.Cycles(), Instructions: instrs}, nil
		}
	}
}

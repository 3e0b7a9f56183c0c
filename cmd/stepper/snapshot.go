package main

import (
	"fmt"

	"github.com/cpirich/retrocore/cpu6502"
	"github.com/cpirich/retrocore/cpu8080"
	"github.com/cpirich/retrocore/io"
	"github.com/cpirich/retrocore/memory"
	"github.com/cpirich/retrocore/z80"
)

// snapshotter is the display-facing surface the stepper model needs.
// Register layouts differ per core, so each concrete type formats its own
// line rather than the model reaching into core internals.
type snapshotter interface {
	Step() uint32
	Run(cycleBudget uint32) uint32
	Halted() bool
	Cycles() uint64
	Registers() string
}

func newSnapshotter(name string, mem memory.Memory, entry uint16) (snapshotter, error) {
	switch name {
	case "6502":
		c := cpu6502.New(mem, nil, nil)
		c.Reset()
		c.PC = entry
		return chip6502{c}, nil
	case "8080":
		c := cpu8080.New(mem, io.NullBus{})
		c.Reset()
		c.PC = entry
		return chip8080{c}, nil
	case "z80":
		c := z80.New(mem, io.NullBus{})
		c.Reset()
		c.PC = entry
		return chipZ80{c}, nil
	default:
		return nil, fmt.Errorf("unknown --cpu %q: want 6502, 8080, or z80", name)
	}
}

type chip6502 struct{ *cpu6502.Chip }

func (c chip6502) Registers() string {
	return fmt.Sprintf("PC=$%04X A=$%02X X=$%02X Y=$%02X S=$%02X P=$%02X",
		c.PC, c.A, c.X, c.Y, c.S, c.P)
}

type chip8080 struct{ *cpu8080.Chip }

func (c chip8080) Registers() string {
	return fmt.Sprintf("PC=$%04X SP=$%04X A=$%02X B=$%02X C=$%02X D=$%02X E=$%02X H=$%02X L=$%02X F=$%02X",
		c.PC, c.SP, c.A, c.B, c.C, c.D, c.E, c.H, c.L, c.F)
}

type chipZ80 struct{ *z80.Chip }

func (c chipZ80) Registers() string {
	return fmt.Sprintf("PC=$%04X SP=$%04X A=$%02X B=$%02X C=$%02X D=$%02X E=$%02X H=$%02X L=$%02X F=$%02X IX=$%04X IY=$%04X",
		c.PC, c.SP, c.A, c.B, c.C, c.D, c.E, c.H, c.L, c.F, c.IX, c.IY)
}

// Command stepper is a live terminal stepper for the three cores: it
// drives run(cyclesPerFrame) once per animation tick and renders
// registers, flags, cycle count and halted state, the terminal analog of
// a requestAnimationFrame driver calling run(cycles) each display frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpirich/retrocore/loader"
	"github.com/cpirich/retrocore/memory"
)

var (
	cpuName        = flag.String("cpu", "", "cpu core: 6502, 8080, or z80")
	loadPath       = flag.String("load", "", "program file to load")
	cyclesPerFrame = flag.Uint("cycles_per_frame", 1000, "cycles to run() per animation tick")
)

func main() {
	flag.Parse()
	if *cpuName == "" || *loadPath == "" {
		log.Fatalf("usage: %s --cpu={6502,8080,z80} --load=<file>", os.Args[0])
	}

	data, err := os.ReadFile(*loadPath)
	if err != nil {
		log.Fatalf("reading %s: %v", *loadPath, err)
	}
	prog, err := loader.Parse(data, loader.Options{})
	if err != nil {
		log.Fatalf("parsing %s: %v", *loadPath, err)
	}

	ram := memory.NewFlat64K()
	ram.PowerOn()
	for _, r := range prog.Regions {
		ram.LoadAt(r.Start, r.Bytes)
	}

	snap, err := newSnapshotter(*cpuName, ram, prog.Entry)
	if err != nil {
		log.Fatalf("%v", err)
	}

	m := model{
		snap:   snap,
		cycles: uint32(*cyclesPerFrame),
		format: prog.Format.String(),
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

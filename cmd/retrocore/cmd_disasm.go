package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpirich/retrocore/disassemble"
	"github.com/cpirich/retrocore/loader"
	"github.com/cpirich/retrocore/memory"
)

func disasmCmd() *cobra.Command {
	var forceFormat string
	var count int

	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Load a 6502 program and disassemble it starting at its entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			opts := loader.Options{}
			if forceFormat != "" {
				f, err := parseFormatFlag(forceFormat)
				if err != nil {
					return err
				}
				opts.ForceFormat = f
			}
			prog, err := loader.Parse(data, opts)
			if err != nil {
				return err
			}

			ram := memory.NewFlat64K()
			ram.PowerOn()
			for _, r := range prog.Regions {
				ram.LoadAt(r.Start, r.Bytes)
			}

			out := cmd.OutOrStdout()
			pc := prog.Entry
			for i := 0; i < count; i++ {
				line, n := disassemble.Step(pc, ram)
				fmt.Fprintf(out, "$%04X: %s\n", pc, line)
				pc += uint16(n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&forceFormat, "format", "", "force a format instead of auto-detecting: intel_hex, woz_hex, raw_binary, cmd, tokenized_bas, plain_bas")
	cmd.Flags().IntVar(&count, "count", 20, "number of instructions to disassemble")
	return cmd
}

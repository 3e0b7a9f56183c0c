package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpirich/retrocore/bdos"
	"github.com/cpirich/retrocore/functest"
)

func exerciseCmd() *cobra.Command {
	var cpuName, comPath, functestPath, successHex string
	var maxCycles, maxInstructions uint64

	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Run the CP/M BDOS harness or the 6502 functional-test harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch cpuName {
			case "8080", "z80":
				return runBDOS(cmd, cpuName, comPath, maxCycles, maxInstructions)
			case "6502":
				return runFunctest(cmd, functestPath, successHex, maxCycles, maxInstructions)
			default:
				return fmt.Errorf("unknown --cpu %q: want 6502, 8080, or z80", cpuName)
			}
		},
	}
	cmd.Flags().StringVar(&cpuName, "cpu", "", "6502, 8080, or z80 (required)")
	cmd.Flags().StringVar(&comPath, "com", "", ".COM image for the CP/M BDOS harness (--cpu=8080 or z80)")
	cmd.Flags().StringVar(&functestPath, "functest", "", "64KiB image for the 6502 functional-test harness (--cpu=6502)")
	cmd.Flags().StringVar(&successHex, "success", "3469", "expected self-jump trap address, hex, for --functest")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 200_000_000, "cycle ceiling")
	cmd.Flags().Uint64Var(&maxInstructions, "max-instructions", 100_000_000, "instruction ceiling")
	cmd.MarkFlagRequired("cpu")
	return cmd
}

func runBDOS(cmd *cobra.Command, cpuName, comPath string, maxCycles, maxInstructions uint64) error {
	if comPath == "" {
		return fmt.Errorf("--com is required for --cpu=%s", cpuName)
	}
	data, err := os.ReadFile(comPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", comPath, err)
	}
	target := bdos.Target8080
	if cpuName == "z80" {
		target = bdos.TargetZ80
	}
	res, err := bdos.Run(bdos.Config{
		Image:           data,
		Target:          target,
		MaxCycles:       maxCycles,
		MaxInstructions: maxInstructions,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "reason: %s\n", res.Reason)
	fmt.Fprintf(out, "pass: %d  fail: %d\n", res.PassCount, res.FailCount)
	for _, g := range res.Groups {
		status := "OK"
		if !g.Pass {
			status = "ERROR"
		}
		fmt.Fprintf(out, "  %-28s %s\n", g.Name, status)
	}
	return nil
}

func runFunctest(cmd *cobra.Command, functestPath, successHex string, maxCycles, maxInstructions uint64) error {
	if functestPath == "" {
		return fmt.Errorf("--functest is required for --cpu=6502")
	}
	data, err := os.ReadFile(functestPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", functestPath, err)
	}
	success, err := strconv.ParseUint(successHex, 16, 16)
	if err != nil {
		return fmt.Errorf("invalid --success %q: %w", successHex, err)
	}
	res, err := functest.Run(functest.Config{
		Image:           data,
		Entry:           0x0400,
		Success:         uint16(success),
		MaxCycles:       maxCycles,
		MaxInstructions: maxInstructions,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "reason: %s\n", res.Reason)
	fmt.Fprintf(out, "success: %v  trap: $%04X  instructions: %d\n", res.Success, res.TrapAddress, res.Instructions)
	return nil
}

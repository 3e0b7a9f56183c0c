// Command retrocore is the terminal front end for the execution core: it
// wires the loader, the three CPU cores, and the test harnesses together
// the way a human operator would from a shell, without owning any domain
// logic of its own.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatalf("retrocore: %v", err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "retrocore",
		Short:        "Run and inspect 8-bit programs on the 6502/8080/Z80 cores",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.AddCommand(runCmd())
	root.AddCommand(parseCmd())
	root.AddCommand(exerciseCmd())
	root.AddCommand(disasmCmd())
	return root
}

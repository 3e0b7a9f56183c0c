package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpirich/retrocore/loader"
)

func parseCmd() *cobra.Command {
	var forceFormat, defaultLoadHex string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Detect a program's format and print its regions",
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
			if defaultLoadHex != "" {
				v, err := strconv.ParseUint(defaultLoadHex, 16, 16)
				if err != nil {
					return fmt.Errorf("invalid --default-load %q: %w", defaultLoadHex, err)
				}
				opts.DefaultLoadAddress = uint16(v)
				opts.HasDefaultLoadAddress = true
			}

			prog, err := loader.Parse(data, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "format: %s\n", prog.Format)
			fmt.Fprintf(out, "entry:  $%04X\n", prog.Entry)
			for _, r := range prog.Regions {
				fmt.Fprintf(out, "region: $%04X-$%04X (%d bytes)\n",
					r.Start, int(r.Start)+len(r.Bytes)-1, len(r.Bytes))
			}
			if prog.Listing != "" {
				fmt.Fprintln(out, "--- listing ---")
				fmt.Fprintln(out, prog.Listing)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&forceFormat, "format", "", "force a format instead of auto-detecting: intel_hex, woz_hex, raw_binary, cmd, tokenized_bas, plain_bas")
	cmd.Flags().StringVar(&defaultLoadHex, "default-load", "", "default load address for raw binary, hex, no $ prefix")
	return cmd
}

func parseFormatFlag(name string) (loader.Format, error) {
	switch name {
	case "intel_hex":
		return loader.FormatIntelHex, nil
	case "woz_hex":
		return loader.FormatWozHex, nil
	case "raw_binary":
		return loader.FormatRawBinary, nil
	case "cmd":
		return loader.FormatCMD, nil
	case "tokenized_bas":
		return loader.FormatTokenizedBAS, nil
	case "plain_bas":
		return loader.FormatPlainBAS, nil
	default:
		return loader.FormatUnknown, fmt.Errorf("unknown --format %q", name)
	}
}

package loader

import "strings"

// parsePlainBAS treats data as an already-readable BASIC listing: there is
// nothing to decode, so the only work is trimming it for display.
func parsePlainBAS(data []uint8) ParsedProgram {
	return ParsedProgram{
		Format:  FormatPlainBAS,
		Entry:   0,
		Listing: strings.TrimRight(string(data), "\r\n"),
	}
}

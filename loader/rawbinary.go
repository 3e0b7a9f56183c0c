package loader

// absOpcodes is the enumerated 6502 opcode set (LDA/STA/ADC/SBC/AND/ORA/EOR/
// CMP/BIT/INC/DEC/JMP/JSR) in their absolute, absolute,X and absolute,Y
// forms, used to scan for addresses that imply a specific load page.
var absOpcodes = map[uint8]bool{
	0xAD: true, 0xBD: true, 0xB9: true, // LDA
	0x8D: true, 0x9D: true, 0x99: true, // STA
	0x6D: true, 0x7D: true, 0x79: true, // ADC
	0xED: true, 0xFD: true, 0xF9: true, // SBC
	0x2D: true, 0x3D: true, 0x39: true, // AND
	0x0D: true, 0x1D: true, 0x19: true, // ORA
	0x4D: true, 0x5D: true, 0x59: true, // EOR
	0xCD: true, 0xDD: true, 0xD9: true, // CMP
	0x2C: true,                 // BIT
	0xEE: true, 0xFE: true,     // INC
	0xCE: true, 0xDE: true,     // DEC
	0x4C: true, // JMP
	0x20: true, // JSR
}

var inferenceCandidates = []uint16{0x0280, 0x0200, 0x0300, 0x0000, 0x0400, 0x0800, 0x1000}

// parseRawBinary loads data verbatim at the requested (or default) load
// address, inferring a different base when the image's leading JMP
// instruction or early absolute references suggest it was assembled for a
// specific page.
func parseRawBinary(data []uint8, opts Options) (ParsedProgram, error) {
	requested := opts.DefaultLoadAddress
	load := requested

	if len(data) >= 3 && data[0] == 0x4C {
		jmpTarget := uint16(data[1]) | uint16(data[2])<<8
		loadedEnd := requested + uint16(len(data)) - 1
		outOfRange := jmpTarget < requested || jmpTarget > loadedEnd
		triggered := outOfRange
		if !triggered && requested < 0xD000 {
			triggered = earlyAbsoluteReference(data, requested)
		}
		if triggered {
			load = inferLoadAddress(jmpTarget, len(data))
		}
	}

	bytesByAddr := make(map[uint16]uint8, len(data))
	for i, b := range data {
		bytesByAddr[load+uint16(i)] = b
	}

	return ParsedProgram{
		Format:  FormatRawBinary,
		Regions: coalesce(bytesByAddr),
		Entry:   load,
	}, nil
}

// earlyAbsoluteReference reports whether the first 512 bytes contain any
// enumerated absolute-mode opcode whose operand address falls in
// [$0200, requested).
func earlyAbsoluteReference(data []uint8, requested uint16) bool {
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	for i := 0; i+2 < limit; i++ {
		if !absOpcodes[data[i]] {
			continue
		}
		addr := uint16(data[i+1]) | uint16(data[i+2])<<8
		if addr >= 0x0200 && addr < requested {
			return true
		}
	}
	return false
}

// inferLoadAddress picks the first candidate base whose loaded range
// contains jmpTarget, falling back to page-aligning the target down by the
// image length.
func inferLoadAddress(jmpTarget uint16, length int) uint16 {
	for _, base := range inferenceCandidates {
		end := base + uint16(length) - 1
		if jmpTarget >= base && jmpTarget <= end {
			return base
		}
	}
	aligned := jmpTarget - uint16(length) + 1
	return aligned &^ 0xFF
}

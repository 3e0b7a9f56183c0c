package loader

import (
	"encoding/hex"
	"strings"
)

const (
	ihexData = 0x00
	ihexEOF  = 0x01
)

func parseIntelHex(data []uint8) (ParsedProgram, error) {
	bytesByAddr := map[uint16]uint8{}

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		if line[0] != ':' {
			return ParsedProgram{}, BadLineFormat{Line: i + 1, Text: line}
		}
		body, err := hex.DecodeString(line[1:])
		if err != nil || len(body) < 5 {
			return ParsedProgram{}, BadLineFormat{Line: i + 1, Text: line}
		}

		sum := uint8(0)
		for _, b := range body {
			sum += b
		}
		if sum != 0 {
			want := uint8(0) - (sum - body[len(body)-1])
			return ParsedProgram{}, ChecksumError{Line: i + 1, Want: want, Got: body[len(body)-1]}
		}

		count := int(body[0])
		addr := uint16(body[1])<<8 | uint16(body[2])
		recType := body[3]
		payload := body[4 : len(body)-1]
		if len(payload) != count {
			return ParsedProgram{}, ByteCountMismatch{Line: i + 1, Want: count, Got: len(payload)}
		}

		switch recType {
		case ihexEOF:
			regions := coalesce(bytesByAddr)
			entry := uint16(0)
			if len(regions) > 0 {
				entry = regions[0].Start
			}
			return ParsedProgram{Format: FormatIntelHex, Regions: regions, Entry: entry}, nil
		case ihexData:
			for j, b := range payload {
				bytesByAddr[addr+uint16(j)] = b
			}
		default:
			// Unrecognized record types (extended address, start segment,
			// etc.) are skipped; this parser targets flat 64KiB images.
		}
	}

	regions := coalesce(bytesByAddr)
	entry := uint16(0)
	if len(regions) > 0 {
		entry = regions[0].Start
	}
	return ParsedProgram{Format: FormatIntelHex, Regions: regions, Entry: entry}, nil
}

func parseWozHex(data []uint8) (ParsedProgram, error) {
	bytesByAddr := map[uint16]uint8{}

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if !wozLineRE.MatchString(line) {
			return ParsedProgram{}, BadLineFormat{Line: i + 1, Text: line}
		}
		colon := strings.IndexByte(line, ':')
		addrPart := line[:colon]
		addrBytes, err := hex.DecodeString(padToEven(addrPart))
		if err != nil {
			return ParsedProgram{}, BadLineFormat{Line: i + 1, Text: line}
		}
		addr := uint16(0)
		for _, b := range addrBytes {
			addr = addr<<8 | uint16(b)
		}

		for _, tok := range strings.Fields(line[colon+1:]) {
			if len(tok) != 2 {
				return ParsedProgram{}, InvalidByte{Line: i + 1, Token: tok}
			}
			b, err := hex.DecodeString(tok)
			if err != nil {
				return ParsedProgram{}, InvalidByte{Line: i + 1, Token: tok}
			}
			bytesByAddr[addr] = b[0]
			addr++
		}
	}

	regions := coalesce(bytesByAddr)
	entry := uint16(0)
	if len(regions) > 0 {
		entry = regions[0].Start
	}
	return ParsedProgram{Format: FormatWozHex, Regions: regions, Entry: entry}, nil
}

func padToEven(s string) string {
	if len(s)%2 != 0 {
		return "0" + s
	}
	return s
}

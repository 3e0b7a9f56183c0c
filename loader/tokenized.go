package loader

import (
	"bytes"
	"fmt"
)

// basProgramArea is the conventional Level II BASIC program load address;
// the interpreter already resident in ROM owns execution from here, so
// parseTokenizedBAS reports entry point 0.
const basProgramArea = 0x4A00

const tokREM = 0x93

// keyword maps a single token byte ($80-$FA) to its TRS-80 Level II
// keyword or operator text.
func keyword(tok uint8) (string, bool) {
	switch tok {
	case 0x80:
		return "END", true
	case 0x81:
		return "FOR", true
	case 0x82:
		return "RESET", true
	case 0x83:
		return "SET", true
	case 0x84:
		return "CLS", true
	case 0x85:
		return "CMD", true
	case 0x86:
		return "RANDOM", true
	case 0x87:
		return "NEXT", true
	case 0x88:
		return "DATA", true
	case 0x89:
		return "INPUT", true
	case 0x8A:
		return "DIM", true
	case 0x8B:
		return "READ", true
	case 0x8C:
		return "LET", true
	case 0x8D:
		return "GOTO", true
	case 0x8E:
		return "RUN", true
	case 0x8F:
		return "IF", true
	case 0x90:
		return "RESTORE", true
	case 0x91:
		return "GOSUB", true
	case 0x92:
		return "RETURN", true
	case tokREM:
		return "REM", true
	case 0x94:
		return "STOP", true
	case 0x95:
		return "ELSE", true
	case 0x96:
		return "TRON", true
	case 0x97:
		return "TROFF", true
	case 0x98:
		return "DEFSTR", true
	case 0x99:
		return "DEFINT", true
	case 0x9A:
		return "DEFSNG", true
	case 0x9B:
		return "DEFDBL", true
	case 0x9C:
		return "LINE", true
	case 0x9D:
		return "EDIT", true
	case 0x9E:
		return "ERROR", true
	case 0x9F:
		return "RESUME", true
	case 0xA0:
		return "OUT", true
	case 0xA1:
		return "ON", true
	case 0xA2:
		return "OPEN", true
	case 0xA3:
		return "FIELD", true
	case 0xA4:
		return "GET", true
	case 0xA5:
		return "PUT", true
	case 0xA6:
		return "CLOSE", true
	case 0xA7:
		return "LOAD", true
	case 0xA8:
		return "MERGE", true
	case 0xA9:
		return "NAME", true
	case 0xAA:
		return "KILL", true
	case 0xAB:
		return "LSET", true
	case 0xAC:
		return "RSET", true
	case 0xAD:
		return "SAVE", true
	case 0xAE:
		return "SYSTEM", true
	case 0xAF:
		return "LPRINT", true
	case 0xB0:
		return "DEF", true
	case 0xB1:
		return "POKE", true
	case 0xB2:
		return "PRINT", true
	case 0xB3:
		return "CONT", true
	case 0xB4:
		return "LIST", true
	case 0xB5:
		return "LLIST", true
	case 0xB6:
		return "DELETE", true
	case 0xB7:
		return "AUTO", true
	case 0xB8:
		return "CLEAR", true
	case 0xB9:
		return "CLOAD", true
	case 0xBA:
		return "CSAVE", true
	case 0xBB:
		return "NEW", true
	case 0xBC:
		return "TAB(", true
	case 0xBD:
		return "TO", true
	case 0xBE:
		return "FN", true
	case 0xBF:
		return "USING", true
	case 0xC0:
		return "VARPTR", true
	case 0xC1:
		return "USR", true
	case 0xC2:
		return "ERL", true
	case 0xC3:
		return "ERR", true
	case 0xC4:
		return "STRING$", true
	case 0xC5:
		return "INSTR", true
	case 0xC6:
		return "POINT", true
	case 0xC7:
		return "TIME$", true
	case 0xC8:
		return "MEM", true
	case 0xC9:
		return "INKEY$", true
	case 0xCA:
		return "THEN", true
	case 0xCB:
		return "NOT", true
	case 0xCC:
		return "STEP", true
	case 0xCD:
		return "+", true
	case 0xCE:
		return "-", true
	case 0xCF:
		return "*", true
	case 0xD0:
		return "/", true
	case 0xD1:
		return "^", true
	case 0xD2:
		return "AND", true
	case 0xD3:
		return "OR", true
	case 0xD4:
		return ">", true
	case 0xD5:
		return "=", true
	case 0xD6:
		return "<", true
	case 0xD7:
		return "SGN", true
	case 0xD8:
		return "INT", true
	case 0xD9:
		return "ABS", true
	case 0xDA:
		return "FRE", true
	case 0xDB:
		return "INP", true
	case 0xDC:
		return "POS", true
	case 0xDD:
		return "SQR", true
	case 0xDE:
		return "RND", true
	case 0xDF:
		return "LOG", true
	case 0xE0:
		return "EXP", true
	case 0xE1:
		return "COS", true
	case 0xE2:
		return "SIN", true
	case 0xE3:
		return "TAN", true
	case 0xE4:
		return "ATN", true
	case 0xE5:
		return "PEEK", true
	case 0xE6:
		return "CVI", true
	case 0xE7:
		return "CVS", true
	case 0xE8:
		return "CVD", true
	case 0xE9:
		return "EOF", true
	case 0xEA:
		return "LOC", true
	case 0xEB:
		return "LOF", true
	case 0xEC:
		return "MKI$", true
	case 0xED:
		return "MKS$", true
	case 0xEE:
		return "MKD$", true
	case 0xEF:
		return "CINT", true
	case 0xF0:
		return "CSNG", true
	case 0xF1:
		return "CDBL", true
	case 0xF2:
		return "FIX", true
	case 0xF3:
		return "LEN", true
	case 0xF4:
		return "STR$", true
	case 0xF5:
		return "VAL", true
	case 0xF6:
		return "ASC", true
	case 0xF7:
		return "CHR$", true
	case 0xF8:
		return "LEFT$", true
	case 0xF9:
		return "RIGHT$", true
	case 0xFA:
		return "MID$", true
	}
	return "", false
}

// parseTokenizedBAS walks the linked list of tokenized lines and both
// reconstructs the raw program image (for loading at basProgramArea) and
// produces a detokenized text listing for display.
func parseTokenizedBAS(data []uint8) (ParsedProgram, error) {
	if len(data) < 4 {
		return ParsedProgram{}, TruncatedRecord{Offset: 0}
	}
	pos := 4 // header: D3 D3 D3 <filename byte>
	var listing bytes.Buffer
	var program bytes.Buffer

	for {
		if pos+4 > len(data) {
			return ParsedProgram{}, TruncatedRecord{Offset: pos}
		}
		nextPtr := uint16(data[pos]) | uint16(data[pos+1])<<8
		lineNum := uint16(data[pos+2]) | uint16(data[pos+3])<<8
		if nextPtr == 0 && lineNum == 0 {
			program.Write(data[pos : pos+2])
			pos += 2
			break
		}

		lineStart := pos
		pos += 4
		fmt.Fprintf(&listing, "%d ", lineNum)

		inString := false
		inRem := false
		for pos < len(data) && data[pos] != 0x00 {
			b := data[pos]
			switch {
			case inString || inRem:
				listing.WriteByte(b)
				if inString && b == '"' {
					inString = false
				}
			case b == '"':
				inString = true
				listing.WriteByte(b)
			case b == tokREM:
				inRem = true
				listing.WriteString("REM")
			case b >= 0x80:
				if kw, ok := keyword(b); ok {
					listing.WriteString(kw)
				} else {
					fmt.Fprintf(&listing, "[%02X]", b)
				}
			case b >= 0x20 && b < 0x7F:
				listing.WriteByte(b)
			default:
				fmt.Fprintf(&listing, "[%02X]", b)
			}
			pos++
		}
		if pos >= len(data) {
			return ParsedProgram{}, TruncatedRecord{Offset: pos}
		}
		listing.WriteByte('\n')
		pos++ // consume the 0x00 line terminator

		program.Write(data[lineStart:pos])
	}

	return ParsedProgram{
		Format:  FormatTokenizedBAS,
		Regions: []Region{{Start: basProgramArea, Bytes: append([]uint8(nil), program.Bytes()...)}},
		Entry:   0,
		Listing: listing.String(),
	}, nil
}

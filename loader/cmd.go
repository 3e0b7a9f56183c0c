package loader

const (
	cmdData  = 0x01
	cmdEntry = 0x02
)

// parseCMD decodes a TRS-80 .CMD executable: a sequence of type/length
// records, type 01 carrying a load address and data, type 02 carrying the
// entry point and ending the file.
func parseCMD(data []uint8) (ParsedProgram, error) {
	bytesByAddr := map[uint16]uint8{}
	haveEntry := false
	entry := uint16(0)

	pos := 0
records:
	for pos < len(data) {
		if pos+2 > len(data) {
			return ParsedProgram{}, TruncatedRecord{Offset: pos}
		}
		recType := data[pos]
		length := int(data[pos+1])
		if length == 0 {
			length = 256
		}
		body := pos + 2
		if body+length > len(data) {
			return ParsedProgram{}, TruncatedRecord{Offset: pos}
		}

		switch recType {
		case cmdData:
			if length < 2 {
				return ParsedProgram{}, TruncatedRecord{Offset: pos}
			}
			loadAddr := uint16(data[body]) | uint16(data[body+1])<<8
			payload := data[body+2 : body+length]
			for i, b := range payload {
				bytesByAddr[loadAddr+uint16(i)] = b
			}
		case cmdEntry:
			if length != 2 {
				return ParsedProgram{}, TruncatedRecord{Offset: pos}
			}
			entry = uint16(data[body]) | uint16(data[body+1])<<8
			haveEntry = true
			break records
		default:
			return ParsedProgram{}, UnknownRecordType{Offset: pos, Type: recType}
		}
		pos = body + length
	}

	regions := coalesce(bytesByAddr)
	if !haveEntry && len(regions) > 0 {
		entry = regions[0].Start
	}
	return ParsedProgram{Format: FormatCMD, Regions: regions, Entry: entry}, nil
}

// Package loader auto-detects and decodes the handful of binary and text
// formats historically used to distribute 8-bit programs: Intel HEX, Woz
// hex dumps, raw binary images (with load-address inference), TRS-80
// .CMD executables, tokenized TRS-80 Level II BASIC, and plain-text BASIC
// listings. Detection is pure — it never mutates or consumes its input —
// and each format's decoder is independent; Parse returns a ParsedProgram
// carrying memory regions, a plain-text listing, or (for tokenized BASIC)
// both.
package loader

import (
	"fmt"
	"sort"
)

// Format names every format Parse can recognize or be forced into.
type Format int

const (
	// FormatUnknown is the zero value; Options.ForceFormat leaves
	// detection in charge when left at this value.
	FormatUnknown Format = iota
	FormatIntelHex
	FormatWozHex
	FormatRawBinary
	FormatCMD
	FormatTokenizedBAS
	FormatPlainBAS
)

func (f Format) String() string {
	switch f {
	case FormatIntelHex:
		return "intel_hex"
	case FormatWozHex:
		return "woz_hex"
	case FormatRawBinary:
		return "raw_binary"
	case FormatCMD:
		return "cmd"
	case FormatTokenizedBAS:
		return "tokenized_bas"
	case FormatPlainBAS:
		return "plain_bas"
	}
	return "unknown"
}

// Region is a contiguous run of bytes starting at Start.
type Region struct {
	Start uint16
	Bytes []uint8
}

// ParsedProgram is the result of a successful Parse. FormatPlainBAS
// carries only Listing; FormatTokenizedBAS carries its program region in
// Regions plus the detokenized Listing; every other format carries only
// Regions.
type ParsedProgram struct {
	Format  Format
	Regions []Region
	Entry   uint16
	Listing string
}

// Options configures Parse. ForceFormat skips detection when set to
// anything other than FormatUnknown. DefaultLoadAddress is consulted only
// by the raw-binary decoder's load-address inference.
type Options struct {
	ForceFormat           Format
	DefaultLoadAddress    uint16
	HasDefaultLoadAddress bool
}

// ChecksumError reports an Intel HEX record whose checksum byte doesn't
// make the record sum to zero mod 256.
type ChecksumError struct {
	Line int
	Want uint8
	Got  uint8
}

func (e ChecksumError) Error() string {
	return fmt.Sprintf("loader: line %d: checksum mismatch, want %#02x got %#02x", e.Line, e.Want, e.Got)
}

// BadLineFormat reports a line that doesn't match its format's grammar.
type BadLineFormat struct {
	Line int
	Text string
}

func (e BadLineFormat) Error() string {
	return fmt.Sprintf("loader: line %d: malformed line %q", e.Line, e.Text)
}

// ByteCountMismatch reports an Intel HEX record whose declared byte count
// doesn't match the number of data bytes actually present.
type ByteCountMismatch struct {
	Line int
	Want int
	Got  int
}

func (e ByteCountMismatch) Error() string {
	return fmt.Sprintf("loader: line %d: byte count mismatch, want %d got %d", e.Line, e.Want, e.Got)
}

// TruncatedRecord reports a .CMD record whose declared length runs past
// the end of the input.
type TruncatedRecord struct {
	Offset int
}

func (e TruncatedRecord) Error() string {
	return fmt.Sprintf("loader: offset %d: record truncated", e.Offset)
}

// InvalidByte reports a Woz hex dump token that isn't exactly two hex
// digits.
type InvalidByte struct {
	Line  int
	Token string
}

func (e InvalidByte) Error() string {
	return fmt.Sprintf("loader: line %d: invalid byte token %q", e.Line, e.Token)
}

// UnknownRecordType reports a .CMD record type byte this parser doesn't
// recognize.
type UnknownRecordType struct {
	Offset int
	Type   uint8
}

func (e UnknownRecordType) Error() string {
	return fmt.Sprintf("loader: offset %d: unknown record type %#02x", e.Offset, e.Type)
}

// Parse detects data's format (unless opts.ForceFormat overrides
// detection) and decodes it into a ParsedProgram.
func Parse(data []uint8, opts Options) (ParsedProgram, error) {
	format := opts.ForceFormat
	if format == FormatUnknown {
		format = detect(data)
	}
	switch format {
	case FormatCMD:
		return parseCMD(data)
	case FormatTokenizedBAS:
		return parseTokenizedBAS(data)
	case FormatPlainBAS:
		return parsePlainBAS(data), nil
	case FormatIntelHex:
		return parseIntelHex(data)
	case FormatWozHex:
		return parseWozHex(data)
	default:
		return parseRawBinary(data, opts)
	}
}

// coalesce turns a sparse address->byte map into sorted, non-overlapping,
// maximally-merged regions.
func coalesce(bytesByAddr map[uint16]uint8) []Region {
	if len(bytesByAddr) == 0 {
		return nil
	}
	addrs := make([]uint16, 0, len(bytesByAddr))
	for a := range bytesByAddr {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	var regions []Region
	start := addrs[0]
	cur := []uint8{bytesByAddr[start]}
	prev := start
	for _, a := range addrs[1:] {
		if a == prev+1 {
			cur = append(cur, bytesByAddr[a])
			prev = a
			continue
		}
		regions = append(regions, Region{Start: start, Bytes: cur})
		start = a
		cur = []uint8{bytesByAddr[a]}
		prev = a
	}
	regions = append(regions, Region{Start: start, Bytes: cur})
	return regions
}

// Package memory defines the bus contract shared by the 6502, 8080 and Z80
// cores along with a handful of concrete implementations (flat RAM, ROM,
// and an address-space router that mixes RAM, banked ROM and memory-mapped
// peripherals). Each CPU core is generic over this contract so a single
// core implementation can be handed any memory map a given machine needs.
package memory

import (
	"fmt"
	"math/rand"
)

// Memory is the minimal read/write contract a CPU core requires. Addresses
// are always taken modulo the implementation's size; callers must never
// assume a Read is free of side effects since some peripherals advance
// state when read (e.g. a keyboard latch).
type Memory interface {
	// Read returns the byte stored at addr.
	Read(addr uint16) uint8
	// Write stores val at addr. For ROM-backed implementations this is a
	// silent no-op.
	Write(addr uint16, val uint8)
}

// Bank extends Memory with power-on behavior used by the address router
// below. Most machine memory maps are built as a set of Banks wired into
// one Router.
type Bank interface {
	Memory
	// PowerOn (re)initializes the bank's contents. RAM implementations may
	// randomize; ROM implementations are no-ops.
	PowerOn()
}

// RAM is a flat read/write region of the given size. Addresses presented
// to Read/Write are taken modulo the region's size.
type RAM struct {
	buf []uint8
}

// NewRAM allocates a RAM bank of size bytes. PowerOn must be called before
// use to establish initial contents.
func NewRAM(size int) (*RAM, error) {
	if size <= 0 || size > 1<<16 {
		return nil, fmt.Errorf("memory: invalid RAM size %d", size)
	}
	return &RAM{buf: make([]uint8, size)}, nil
}

// NewFlat64K returns a 64KiB RAM bank, the common case for the CP/M and
// 6502-functional-test harnesses which want one undivided address space.
func NewFlat64K() *RAM {
	r, _ := NewRAM(1 << 16)
	return r
}

func (r *RAM) addr(a uint16) int {
	return int(a) % len(r.buf)
}

// Read implements Memory.
func (r *RAM) Read(a uint16) uint8 { return r.buf[r.addr(a)] }

// Write implements Memory.
func (r *RAM) Write(a uint16, v uint8) { r.buf[r.addr(a)] = v }

// PowerOn randomizes RAM contents, mimicking real hardware's undefined
// power-on state. Callers that need deterministic startup (the test
// harnesses) overwrite the relevant region immediately afterward.
func (r *RAM) PowerOn() {
	for i := range r.buf {
		r.buf[i] = uint8(rand.Intn(256))
	}
}

// LoadAt copies data into the RAM starting at addr, wrapping per Read/Write
// semantics. Used by harnesses and the loader-driven host to place a
// ParsedProgram's regions into a backing store.
func (r *RAM) LoadAt(addr uint16, data []uint8) {
	for i, b := range data {
		r.Write(addr+uint16(i), b)
	}
}

// Size reports the RAM's byte length.
func (r *RAM) Size() int { return len(r.buf) }

// ROM is a read-only region; Write is a no-op. Content is supplied once at
// construction and never randomized by PowerOn.
type ROM struct {
	buf []uint8
}

// NewROM wraps data as a read-only bank. Reads beyond len(data) wrap.
func NewROM(data []uint8) *ROM {
	cp := make([]uint8, len(data))
	copy(cp, data)
	return &ROM{buf: cp}
}

// Read implements Memory.
func (r *ROM) Read(a uint16) uint8 {
	if len(r.buf) == 0 {
		return 0xFF
	}
	return r.buf[int(a)%len(r.buf)]
}

// Write implements Memory; ROM silently discards writes.
func (r *ROM) Write(uint16, uint8) {}

// PowerOn implements Bank; ROM contents never change.
func (r *ROM) PowerOn() {}

// mapping is one entry in a Router: a Bank occupying [start, start+len).
type mapping struct {
	start uint16
	len   int
	bank  Memory
}

// Router multiplexes several Banks into one 16-bit address space, the
// "address-space router that mixes RAM / banked ROM / memory-mapped
// peripherals" the system overview calls for. Map calls are checked most
// recently added first, so later Map calls can carve out a narrower
// override (e.g. a peripheral window) inside a broader region mapped
// earlier (e.g. ROM). An address hit by no mapping reads as $FF and
// discards writes, matching an open bus.
type Router struct {
	maps []mapping
}

// NewRouter returns an empty router; use Map to add regions.
func NewRouter() *Router {
	return &Router{}
}

// Map installs bank at [start, start+length) for subsequent Read/Write
// calls.
func (r *Router) Map(start uint16, length int, bank Memory) {
	r.maps = append(r.maps, mapping{start: start, len: length, bank: bank})
}

func (r *Router) find(addr uint16) (mapping, bool) {
	for i := len(r.maps) - 1; i >= 0; i-- {
		m := r.maps[i]
		lo := int(m.start)
		hi := lo + m.len
		a := int(addr)
		if a >= lo && a < hi {
			return m, true
		}
	}
	return mapping{}, false
}

// Read implements Memory, dispatching to whichever mapped bank covers addr.
func (r *Router) Read(addr uint16) uint8 {
	m, ok := r.find(addr)
	if !ok {
		return 0xFF
	}
	return m.bank.Read(addr - m.start)
}

// Write implements Memory, dispatching to whichever mapped bank covers
// addr. Writes to unmapped addresses are discarded.
func (r *Router) Write(addr uint16, val uint8) {
	m, ok := r.find(addr)
	if !ok {
		return
	}
	m.bank.Write(addr-m.start, val)
}

// PowerOn powers on every distinct Bank mapped into the router.
func (r *Router) PowerOn() {
	seen := map[Memory]bool{}
	for _, m := range r.maps {
		if seen[m.bank] {
			continue
		}
		seen[m.bank] = true
		if b, ok := m.bank.(Bank); ok {
			b.PowerOn()
		}
	}
}

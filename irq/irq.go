// Package irq defines an interrupt-source contract and a simple
// host-settable source. A source of interrupts (IRQ/NMI) implements Sender
// so other components can raise state without cross-coupling to a specific
// core; the 6502 core samples such sources through a structurally
// identical local interface, while the 8080 and Z80 cores take interrupts
// only through direct IRQ/NMI calls.
// All three cores treat reset/irq/nmi as idempotent at any bus-quiet
// moment between Step calls: they never require mid-instruction
// interruption and may be invoked freely by a host between calls.
package irq

// Sender defines the interface for an interrupt source. Both level- and
// edge-triggered real hardware is modeled identically here; it's up to
// the caller's Step/Run loop to sample Raised() at instruction boundaries.
type Sender interface {
	// Raised reports whether the interrupt line is currently held high.
	Raised() bool
}

// Line is a simple edge/level interrupt source a host can assert and
// clear directly, useful for tests and for peripherals that don't need
// anything fancier than "hold this line high until acknowledged".
type Line struct {
	raised bool
}

// Raised implements Sender.
func (l *Line) Raised() bool { return l.raised }

// Assert holds the line high.
func (l *Line) Assert() { l.raised = true }

// Clear releases the line.
func (l *Line) Clear() { l.raised = false }

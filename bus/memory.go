package bus

import (
	"fmt"
	"log/slog"
)

// Memory is a flat, byte-addressable reference Bus implementation used by
// the CLI and by tests. It has no wait states: every access is immediate
// and ICycle is a no-op counter. Reads past the end of the backing array
// return zero, matching open-bus behavior closely enough for test fixtures.
//
// Grounded on the teacher's emu.Memory (NewMemory, Read8/16/32, Write8/16/32
// naming) generalized from a fixed address space to an arbitrary byte slice
// plus the breakpoint/hacf/log/interrupt hooks this spec's Bus adds.
type Memory struct {
	data []byte

	logger *slog.Logger

	breakpointHits int
	halted         bool
	haltReason     string
	cycles         int

	pendingFIQ bool
	pendingIRQ bool
}

// MemoryOption configures a Memory at construction time, following the
// teacher's EmulatorOption functional-options style.
type MemoryOption func(*Memory)

// WithLogger attaches a structured logger for the Bus.Log sink. Without
// this option, Log is silently discarded.
func WithLogger(logger *slog.Logger) MemoryOption {
	return func(m *Memory) { m.logger = logger }
}

// NewMemory allocates a flat Memory of size bytes.
func NewMemory(size int, opts ...MemoryOption) *Memory {
	m := &Memory{data: make([]byte, size)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadAt copies image into the backing array starting at addr, growing the
// backing array if necessary.
func (m *Memory) LoadAt(addr uint32, image []byte) {
	end := int(addr) + len(image)
	if end > len(m.data) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[addr:], image)
}

func (m *Memory) Read8(addr uint32) uint8 {
	if int(addr) >= len(m.data) {
		return 0
	}
	return m.data[addr]
}

func (m *Memory) Read16(addr uint32) uint16 {
	a := addr &^ 1
	lo := uint16(m.Read8(a))
	hi := uint16(m.Read8(a + 1))
	return lo | hi<<8
}

func (m *Memory) Read32(addr uint32) uint32 {
	a := addr &^ 3
	b0 := uint32(m.Read8(a))
	b1 := uint32(m.Read8(a + 1))
	b2 := uint32(m.Read8(a + 2))
	b3 := uint32(m.Read8(a + 3))
	return b0 | b1<<8 | b2<<16 | b3<<24
}

func (m *Memory) Write8(addr uint32, v uint8) {
	if int(addr) >= len(m.data) {
		return
	}
	m.data[addr] = v
}

func (m *Memory) Write16(addr uint32, v uint16) {
	a := addr &^ 1
	m.Write8(a, uint8(v))
	m.Write8(a+1, uint8(v>>8))
}

func (m *Memory) Write32(addr uint32, v uint32) {
	a := addr &^ 3
	m.Write8(a, uint8(v))
	m.Write8(a+1, uint8(v>>8))
	m.Write8(a+2, uint8(v>>16))
	m.Write8(a+3, uint8(v>>24))
}

// Read implements Bus.Read by dispatching on width.
func (m *Memory) Read(width uint8, addr uint32, isCode, seq bool) uint32 {
	_ = isCode
	_ = seq
	switch width {
	case 8:
		return uint32(m.Read8(addr))
	case 16:
		return uint32(m.Read16(addr))
	case 32:
		return m.Read32(addr)
	default:
		panic(fmt.Sprintf("bus: unsupported read width %d", width))
	}
}

// Write implements Bus.Write by dispatching on width.
func (m *Memory) Write(width uint8, addr uint32, value uint32, seq bool) {
	_ = seq
	switch width {
	case 8:
		m.Write8(addr, uint8(value))
	case 16:
		m.Write16(addr, uint16(value))
	case 32:
		m.Write32(addr, value)
	default:
		panic(fmt.Sprintf("bus: unsupported write width %d", width))
	}
}

// ICycle records n internal cycles. Memory has no wait states, so this is
// bookkeeping only (exposed via Cycles for diagnostics/tests).
func (m *Memory) ICycle(n int) { m.cycles += n }

// Cycles returns the running total of internal cycles passed to ICycle.
func (m *Memory) Cycles() int { return m.cycles }

// Breakpoint records a breakpoint hit. Tests and the CLI both poll
// BreakpointHits rather than halting execution on a hit.
func (m *Memory) Breakpoint() { m.breakpointHits++ }

// BreakpointHits returns how many times Breakpoint has been invoked.
func (m *Memory) BreakpointHits() int { return m.breakpointHits }

// Hacf records an unrecoverable-error condition. Callers drive Cycle in a
// loop and should check Halted after each call.
func (m *Memory) Hacf(reason string) {
	m.halted = true
	m.haltReason = reason
	if m.logger != nil {
		m.logger.Error("hacf", "reason", reason)
	}
}

// Halted reports whether Hacf has been called.
func (m *Memory) Halted() bool { return m.halted }

// HaltReason returns the reason passed to the most recent Hacf call.
func (m *Memory) HaltReason() string { return m.haltReason }

// Log forwards to the attached logger, if any.
func (m *Memory) Log(format string, args ...any) {
	if m.logger != nil {
		m.logger.Info(fmt.Sprintf(format, args...))
	}
}

// SetPendingFIQ and SetPendingIRQ let the host raise the two interrupt
// lines between Cycle calls.
func (m *Memory) SetPendingFIQ(p bool) { m.pendingFIQ = p }
func (m *Memory) SetPendingIRQ(p bool) { m.pendingIRQ = p }

func (m *Memory) PendingFIQ() bool { return m.pendingFIQ }
func (m *Memory) PendingIRQ() bool { return m.pendingIRQ }

package cpu

import (
	"fmt"

	"github.com/armcore/arm7tdmi/bus"
	"github.com/armcore/arm7tdmi/isa"
)

// bank holds the registers a non-USR/SYS mode banks privately. USR and SYS
// share a single bank with no SPSR; every other mode gets one of these, and
// FIQ additionally banks R8-R12 separately (tracked outside bank, below).
type bank struct {
	r13, r14 uint32
	spsr     uint32
}

// Registers is the full ARMv4T register file: the sixteen general registers
// currently visible through the active mode's banking, CPSR, and the banked
// copies every mode switch swaps in and out.
//
// Grounded on the teacher's emu.RegFile (flat R array plus accessor methods)
// generalized from RISC-V's single register file to ARMv4T's banked one, and
// on original_source/arm7tdmi.hpp's reg_t for the banking layout itself: R13
// and R14 are banked per mode, R8-R12 are additionally banked for FIQ only,
// and only the five exception modes carry an SPSR.
type Registers struct {
	r    [16]uint32
	cpsr uint32

	usrR8_12 [5]uint32
	fiqR8_12 [5]uint32

	usr bank // r13/r14 only; spsr unused, USR/SYS have none
	fiq bank
	irq bank
	svc bank
	abt bank
	und bank
}

// Reset puts the register file in its power-up state: SVC mode, IRQ and FIQ
// masked, ARM state, PC and all general registers zeroed.
func (r *Registers) Reset() {
	*r = Registers{}
	r.cpsr = uint32(isa.ModeSVC) | cpsrIRQDisable | cpsrFIQDisable
}

// CurrentMode returns the mode named by CPSR's low five bits.
func (r *Registers) CurrentMode() isa.Mode {
	return isa.Mode(r.cpsr & 0x1F)
}

// Reg reads general register n (0-15) from the active window.
func (r *Registers) Reg(n uint8) uint32 { return r.r[n] }

// SetReg writes general register n (0-15) in the active window.
func (r *Registers) SetReg(n uint8, v uint32) { r.r[n] = v }

// RegUserBank reads register n from the USR/SYS bank specifically,
// regardless of which mode is currently active. Used only by the S-bit
// "force user bank" form of LDM/STM, where a privileged-mode transfer
// reaches past its own active window into the register set user code
// would see. For n outside 8-14 the USR bank is the active window anyway
// (R0-R7 and R15 are never banked), so this falls back to Reg.
func (r *Registers) RegUserBank(n uint8) uint32 {
	switch {
	case n >= 8 && n <= 12:
		return r.usrR8_12[n-8]
	case n == 13:
		return r.usr.r13
	case n == 14:
		return r.usr.r14
	default:
		return r.r[n]
	}
}

// SetRegUserBank writes register n into the USR/SYS bank specifically. See
// RegUserBank.
func (r *Registers) SetRegUserBank(n uint8, v uint32) {
	switch {
	case n >= 8 && n <= 12:
		r.usrR8_12[n-8] = v
	case n == 13:
		r.usr.r13 = v
	case n == 14:
		r.usr.r14 = v
	default:
		r.r[n] = v
	}
}

// CPSR returns the current program status register.
func (r *Registers) CPSR() uint32 { return r.cpsr }

// SetCPSR overwrites CPSR outright, with no banking side effect. Callers
// that change the mode field through this must follow up with BankRegisters
// themselves (this is what MSR does).
func (r *Registers) SetCPSR(v uint32) { r.cpsr = v }

// SPSR returns the current mode's saved program status register and whether
// one exists (false in USR/SYS mode).
func (r *Registers) SPSR() (uint32, bool) {
	b := r.bankFor(r.CurrentMode())
	if b == nil {
		return 0, false
	}
	return b.spsr, true
}

// SetSPSR writes the current mode's SPSR. It is a no-op in USR/SYS mode,
// where no SPSR exists.
func (r *Registers) SetSPSR(v uint32) {
	if b := r.bankFor(r.CurrentMode()); b != nil {
		b.spsr = v
	}
}

// bankFor returns the private r13/r14/spsr bank for mode, or nil for
// USR/SYS (which share r.usr and have no SPSR to address).
func (r *Registers) bankFor(mode isa.Mode) *bank {
	switch mode {
	case isa.ModeFIQ:
		return &r.fiq
	case isa.ModeIRQ:
		return &r.irq
	case isa.ModeSVC:
		return &r.svc
	case isa.ModeABT:
		return &r.abt
	case isa.ModeUND:
		return &r.und
	default:
		return nil
	}
}

// r13r14Bank returns the bank whose r13/r14 fields are live for mode,
// including USR and SYS (which share r.usr).
func (r *Registers) r13r14Bank(mode isa.Mode) *bank {
	if b := r.bankFor(mode); b != nil {
		return b
	}
	return &r.usr
}

// BankRegisters swaps R8-R12 (FIQ only), R13, and R14 between the current
// mode and newMode, and, when enterMode is true, additionally saves CPSR
// into newMode's SPSR (if it has one) and rewrites CPSR's mode field to
// newMode.
//
// Grounded bit-for-bit on original_source/arm7tdmi.hpp's bankRegisters: the
// register swap happens unconditionally on every call, but the SPSR save
// and CPSR rewrite only happen when enterMode is true, and the SPSR save
// further requires newMode to have an SPSR slot at all. The CPSR rewrite
// clears bits 5:0 (mode field plus the T bit), so entering a mode this way
// always forces ARM state; MSR-driven re-banking calls this with
// enterMode=false for exactly that reason — it must not touch CPSR itself,
// since the MSR handler writes CPSR's mode field directly.
func (r *Registers) BankRegisters(b bus.Bus, newMode isa.Mode, enterMode bool) {
	if !newMode.Valid() {
		b.Hacf(fmt.Sprintf("bankRegisters: invalid mode 0x%02X", uint8(newMode)))
		return
	}

	currentMode := r.CurrentMode()

	// Save R8-R12 of the outgoing mode.
	if currentMode == isa.ModeFIQ {
		copy(r.fiqR8_12[:], r.r[8:13])
	} else {
		copy(r.usrR8_12[:], r.r[8:13])
	}
	oldR13R14 := r.r13r14Bank(currentMode)
	oldR13R14.r13 = r.r[13]
	oldR13R14.r14 = r.r[14]

	// Load R8-R12 of the incoming mode.
	if newMode == isa.ModeFIQ {
		copy(r.r[8:13], r.fiqR8_12[:])
	} else {
		copy(r.r[8:13], r.usrR8_12[:])
	}
	newR13R14 := r.r13r14Bank(newMode)
	r.r[13] = newR13R14.r13
	r.r[14] = newR13R14.r14

	if enterMode {
		if newBank := r.bankFor(newMode); newBank != nil {
			newBank.spsr = r.cpsr
		}
		r.cpsr = (r.cpsr &^ 0x3F) | uint32(newMode)
	}
}

// LeaveMode restores CPSR from the current mode's SPSR and re-banks into
// whatever mode that SPSR names, without disturbing it further: grounded on
// arm7tdmi.hpp's leaveMode, which reads the outgoing SPSR first, re-banks
// with enterMode=false (so BankRegisters itself never touches CPSR), and
// only then assigns the saved value to CPSR in one unconditional write.
func (r *Registers) LeaveMode(b bus.Bus) {
	saved, ok := r.SPSR()
	if !ok {
		saved = r.cpsr
	}
	r.BankRegisters(b, isa.Mode(saved&0x1F), false)
	r.cpsr = saved
}

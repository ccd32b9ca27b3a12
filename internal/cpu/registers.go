package cpu

// Mode is the five-bit CPSR mode field. Exactly seven values are legal; any
// other pattern is an illegal CPU state (SPEC_FULL.md §3).
type Mode uint8

const (
	ModeUSR Mode = 0x10
	ModeFIQ Mode = 0x11
	ModeIRQ Mode = 0x12
	ModeSVC Mode = 0x13
	ModeABT Mode = 0x17
	ModeUND Mode = 0x1B
	ModeSYS Mode = 0x1F
)

func (m Mode) valid() bool {
	switch m {
	case ModeUSR, ModeFIQ, ModeIRQ, ModeSVC, ModeABT, ModeUND, ModeSYS:
		return true
	default:
		return false
	}
}

const (
	cpsrBitN = 31
	cpsrBitZ = 30
	cpsrBitC = 29
	cpsrBitV = 28
	cpsrBitI = 7
	cpsrBitF = 6
	cpsrBitT = 5
	cpsrModeMask = 0x1F
)

// Registers is the ARMv4T register file: r0..r15 with mode-banked shadows for
// r8..r12 (FIQ only), r13/r14 (FIQ/SVC/ABT/IRQ/UND plus the shared USR/SYS
// copy), CPSR, and five SPSR shadows.
//
// Grounded on LJS360d-RoBA/internal/cpu/registers.go, which already has the
// right banking shape; the two bugs fixed here are GetSPSR/SetSPSR silently
// no-oping in USR/SYS instead of raising ModeFault, and the NV condition
// being treated as always-false instead of always-true.
type Registers struct {
	r [8]uint32 // r0..r7, unbanked

	r8_12    [5]uint32 // r8..r12 outside FIQ
	r8_12Fiq [5]uint32 // r8..r12 in FIQ

	spUsr, lrUsr uint32 // shared by USR and SYS
	spFiq, lrFiq uint32
	spSvc, lrSvc uint32
	spAbt, lrAbt uint32
	spUnd, lrUnd uint32
	spIrq, lrIrq uint32

	pc uint32

	cpsr uint32

	spsrFiq, spsrSvc, spsrAbt, spsrUnd, spsrIrq uint32
}

// NewRegisters constructs a register file already in its post-reset state.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset clears all registers to zero, banks the prior r14/cpsr into
// r14_svc/spsr_svc (an operational convenience; architecturally these are
// undefined after power-on), sets mode to SYS, masks IRQ and FIQ, clears
// Thumb, and sets PC to zero (CPU.Reset then loads PC from the reset vector).
func (r *Registers) Reset() {
	prevLR, prevCPSR := r.bankedLR(r.Mode()), r.cpsr

	*r = Registers{}
	r.lrSvc = prevLR
	r.spsrSvc = prevCPSR

	r.SetMode(ModeSYS)
	r.SetIRQDisabled(true)
	r.SetFIQDisabled(true)
	r.SetThumb(false)
	r.pc = 0
}

// Mode returns the current CPSR mode field.
func (r *Registers) Mode() Mode { return Mode(r.cpsr & cpsrModeMask) }

// SetMode updates only the low five bits of CPSR. An illegal mode value
// triggers a reset, per SPEC_FULL.md §3.
func (r *Registers) SetMode(m Mode) {
	if !m.valid() {
		r.cpsr = r.cpsr&^cpsrModeMask | uint32(ModeSYS)
		r.Reset()
		return
	}
	r.cpsr = r.cpsr&^cpsrModeMask | uint32(m)
}

// GetReg reads the logical register n (0..15), resolved by the current mode.
func (r *Registers) GetReg(n uint8) uint32 {
	mode := r.Mode()
	switch {
	case n <= 7:
		return r.r[n]
	case n >= 8 && n <= 12:
		if mode == ModeFIQ {
			return r.r8_12Fiq[n-8]
		}
		return r.r8_12[n-8]
	case n == 13:
		return r.bankedSP(mode)
	case n == 14:
		return r.bankedLR(mode)
	case n == 15:
		// The CPU façade advances the stored PC by the current
		// instruction's own width (4 for ARM, 2 for Thumb) before
		// executing it. Reads of r15 as an operand must observe the
		// full ARM pipeline value (instruction address + 8 for ARM,
		// +4 for Thumb), which is this stored value plus one more
		// instruction width.
		if r.Thumb() {
			return r.pc + 2
		}
		return r.pc + 4
	default:
		panic("cpu: register index out of range")
	}
}

// GetUserReg reads logical register n (0..14) through the USR/SYS bank
// regardless of the current mode, for the LDM/STM `^` user-bank transfer
// variant (SPEC_FULL.md §4.4).
func (r *Registers) GetUserReg(n uint8) uint32 {
	switch {
	case n <= 7:
		return r.r[n]
	case n >= 8 && n <= 12:
		return r.r8_12[n-8]
	case n == 13:
		return r.spUsr
	case n == 14:
		return r.lrUsr
	default:
		panic("cpu: register index out of range")
	}
}

// SetUserReg writes logical register n (0..14) through the USR/SYS bank
// regardless of the current mode, for the LDM/STM `^` user-bank transfer
// variant (SPEC_FULL.md §4.4).
func (r *Registers) SetUserReg(n uint8, v uint32) {
	switch {
	case n <= 7:
		r.r[n] = v
	case n >= 8 && n <= 12:
		r.r8_12[n-8] = v
	case n == 13:
		r.spUsr = v
	case n == 14:
		r.lrUsr = v
	default:
		panic("cpu: register index out of range")
	}
}

// SetReg writes the logical register n (0..15), resolved by the current mode.
func (r *Registers) SetReg(n uint8, v uint32) {
	mode := r.Mode()
	switch {
	case n <= 7:
		r.r[n] = v
	case n >= 8 && n <= 12:
		if mode == ModeFIQ {
			r.r8_12Fiq[n-8] = v
		} else {
			r.r8_12[n-8] = v
		}
	case n == 13:
		*r.bankedSPPtr(mode) = v
	case n == 14:
		*r.bankedLRPtr(mode) = v
	case n == 15:
		r.pc = v
	default:
		panic("cpu: register index out of range")
	}
}

func (r *Registers) bankedSP(mode Mode) uint32  { return *r.bankedSPPtr(mode) }
func (r *Registers) bankedLR(mode Mode) uint32  { return *r.bankedLRPtr(mode) }

func (r *Registers) bankedSPPtr(mode Mode) *uint32 {
	switch mode {
	case ModeFIQ:
		return &r.spFiq
	case ModeSVC:
		return &r.spSvc
	case ModeABT:
		return &r.spAbt
	case ModeUND:
		return &r.spUnd
	case ModeIRQ:
		return &r.spIrq
	default: // USR, SYS
		return &r.spUsr
	}
}

func (r *Registers) bankedLRPtr(mode Mode) *uint32 {
	switch mode {
	case ModeFIQ:
		return &r.lrFiq
	case ModeSVC:
		return &r.lrSvc
	case ModeABT:
		return &r.lrAbt
	case ModeUND:
		return &r.lrUnd
	case ModeIRQ:
		return &r.lrIrq
	default: // USR, SYS
		return &r.lrUsr
	}
}

// PC returns r15 directly, without the read-side pipeline-offset adjustment
// GetReg(15) applies; callers inside instruction handlers should use the value
// already advanced by CPU.StepInstruction.
func (r *Registers) PC() uint32     { return r.pc }
func (r *Registers) SetPC(v uint32) { r.pc = v }

// CPSR returns the raw 32-bit status word.
func (r *Registers) CPSR() uint32 { return r.cpsr }

// SetCPSR overwrites every bit of CPSR, including mode. Used by instruction
// handlers that restore CPSR wholesale from SPSR (data-processing S-bit with
// Rd=PC, and LDM with the `^` variant loading PC).
func (r *Registers) SetCPSR(v uint32) {
	mode := Mode(v & cpsrModeMask)
	if !mode.valid() {
		r.Reset()
		return
	}
	r.cpsr = v
}

// GetSPSR returns the SPSR shadow for the current mode. Reading SPSR from
// USR or SYS is architecturally invalid and raises ModeFault.
func (r *Registers) GetSPSR() (uint32, error) {
	switch r.Mode() {
	case ModeFIQ:
		return r.spsrFiq, nil
	case ModeSVC:
		return r.spsrSvc, nil
	case ModeABT:
		return r.spsrAbt, nil
	case ModeUND:
		return r.spsrUnd, nil
	case ModeIRQ:
		return r.spsrIrq, nil
	default:
		return 0, &ModeFault{Mode: uint8(r.Mode()), Op: "read SPSR"}
	}
}

// SetSPSR writes the SPSR shadow for the current mode. Writing SPSR from USR
// or SYS raises ModeFault.
func (r *Registers) SetSPSR(v uint32) error {
	switch r.Mode() {
	case ModeFIQ:
		r.spsrFiq = v
	case ModeSVC:
		r.spsrSvc = v
	case ModeABT:
		r.spsrAbt = v
	case ModeUND:
		r.spsrUnd = v
	case ModeIRQ:
		r.spsrIrq = v
	default:
		return &ModeFault{Mode: uint8(r.Mode()), Op: "write SPSR"}
	}
	return nil
}

// spsrForPtr returns the SPSR shadow for an arbitrary mode, used by exception
// entry (which always writes the *new* mode's SPSR, never the current one).
func (r *Registers) spsrForPtr(mode Mode) *uint32 {
	switch mode {
	case ModeFIQ:
		return &r.spsrFiq
	case ModeSVC:
		return &r.spsrSvc
	case ModeABT:
		return &r.spsrAbt
	case ModeUND:
		return &r.spsrUnd
	case ModeIRQ:
		return &r.spsrIrq
	default:
		return nil
	}
}

func bit(v uint32, n uint) bool { return v&(1<<n) != 0 }

func setBit(v *uint32, n uint, set bool) {
	if set {
		*v |= 1 << n
	} else {
		*v &^= 1 << n
	}
}

func (r *Registers) N() bool { return bit(r.cpsr, cpsrBitN) }
func (r *Registers) Z() bool { return bit(r.cpsr, cpsrBitZ) }
func (r *Registers) C() bool { return bit(r.cpsr, cpsrBitC) }
func (r *Registers) V() bool { return bit(r.cpsr, cpsrBitV) }

func (r *Registers) SetN(v bool) { setBit(&r.cpsr, cpsrBitN, v) }
func (r *Registers) SetZ(v bool) { setBit(&r.cpsr, cpsrBitZ, v) }
func (r *Registers) SetC(v bool) { setBit(&r.cpsr, cpsrBitC, v) }
func (r *Registers) SetV(v bool) { setBit(&r.cpsr, cpsrBitV, v) }

// SetNZCV is the bulk flag setter; it touches only bits 31..28 of CPSR.
func (r *Registers) SetNZCV(n, z, c, v bool) {
	r.SetN(n)
	r.SetZ(z)
	r.SetC(c)
	r.SetV(v)
}

func (r *Registers) IRQDisabled() bool { return bit(r.cpsr, cpsrBitI) }
func (r *Registers) FIQDisabled() bool { return bit(r.cpsr, cpsrBitF) }
func (r *Registers) Thumb() bool       { return bit(r.cpsr, cpsrBitT) }

func (r *Registers) SetIRQDisabled(v bool) { setBit(&r.cpsr, cpsrBitI, v) }
func (r *Registers) SetFIQDisabled(v bool) { setBit(&r.cpsr, cpsrBitF, v) }
func (r *Registers) SetThumb(v bool)       { setBit(&r.cpsr, cpsrBitT, v) }

// CheckCondition evaluates a four-bit condition code against NZCV.
// NV is architecturally unpredictable; this implementation treats it as
// always-true for determinism (SPEC_FULL.md §4.1), flagging the divergence
// from hardware rather than silently matching it.
func (r *Registers) CheckCondition(c Condition) bool {
	n, z, cc, v := r.N(), r.Z(), r.C(), r.V()
	switch c {
	case CondEQ:
		return z
	case CondNE:
		return !z
	case CondCS:
		return cc
	case CondCC:
		return !cc
	case CondMI:
		return n
	case CondPL:
		return !n
	case CondVS:
		return v
	case CondVC:
		return !v
	case CondHI:
		return cc && !z
	case CondLS:
		return !cc || z
	case CondGE:
		return n == v
	case CondLT:
		return n != v
	case CondGT:
		return !z && n == v
	case CondLE:
		return z || n != v
	case CondAL:
		return true
	case CondNV:
		return true
	default:
		return false
	}
}

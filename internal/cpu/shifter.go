package cpu

// Shift types as they appear in bits 6..5 of a data-processing second operand
// or an addressing-mode-2 register offset.
const (
	ShiftLSL = 0
	ShiftLSR = 1
	ShiftASR = 2
	ShiftROR = 3
)

// ShiftImmediate applies a barrel shift whose amount is a literal 5-bit
// immediate, honoring the architectural zero-shift special cases:
// LSL#0 leaves the value and carry-out unchanged; LSR#0/ASR#0 are treated as
// a shift by 32; ROR#0 is RRX (rotate right through the carry flag by one).
// Grounded on original_source's process_shifter_operand / process_addressing_mode.
func ShiftImmediate(shiftType uint8, value uint32, amount uint8, carryIn bool) (uint32, bool) {
	switch shiftType {
	case ShiftLSL:
		if amount == 0 {
			return value, carryIn
		}
		carryOut := bit(value, uint(32-amount))
		return value << amount, carryOut
	case ShiftLSR:
		if amount == 0 {
			return 0, bit(value, 31)
		}
		carryOut := bit(value, uint(amount-1))
		return value >> amount, carryOut
	case ShiftASR:
		if amount == 0 {
			if bit(value, 31) {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		carryOut := bit(value, uint(amount-1))
		return uint32(int32(value) >> amount), carryOut
	case ShiftROR:
		if amount == 0 {
			carryOut := bit(value, 0)
			result := value >> 1
			if carryIn {
				result |= 1 << 31
			}
			return result, carryOut
		}
		amount %= 32
		if amount == 0 {
			return value, bit(value, 31)
		}
		carryOut := bit(value, uint(amount-1))
		return value<<(32-amount) | value>>amount, carryOut
	default:
		return value, carryIn
	}
}

// ShiftRegister applies a barrel shift whose amount comes from the low 8 bits
// of a register: a shift amount of zero always leaves the value and carry
// unchanged (there is no RRX/32-shift special case in this form). For
// LSL/LSR/ASR, amounts of 32 or more saturate; ROR takes the amount modulo 32.
func ShiftRegister(shiftType uint8, value uint32, amount uint8, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	switch shiftType {
	case ShiftLSL:
		switch {
		case amount == 32:
			return 0, bit(value, 0)
		case amount > 32:
			return 0, false
		default:
			return value << amount, bit(value, uint(32-amount))
		}
	case ShiftLSR:
		switch {
		case amount == 32:
			return 0, bit(value, 31)
		case amount > 32:
			return 0, false
		default:
			return value >> amount, bit(value, uint(amount-1))
		}
	case ShiftASR:
		if amount >= 32 {
			if bit(value, 31) {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		return uint32(int32(value) >> amount), bit(value, uint(amount-1))
	case ShiftROR:
		amount %= 32
		if amount == 0 {
			return value, bit(value, 31)
		}
		return value<<(32-amount) | value>>amount, bit(value, uint(amount-1))
	default:
		return value, carryIn
	}
}

// AddressingType records which indexing form a load/store addressing-mode
// computation used, so the caller can enforce Rn != Rd on pre-indexed forms.
type AddressingType int

const (
	AddrOffset AddressingType = iota
	AddrPreIndexed
	AddrPostIndexed
)

// Operand2 evaluates addressing mode 1 (the data-processing second operand):
// an 8-bit immediate rotated right by 2*rotate, or Rm shifted by an immediate
// or a register amount. It returns the shifter's own carry-out, which logical
// data-processing opcodes use for their flag update instead of any ALU carry.
func Operand2(regs *Registers, instr uint32) (value uint32, carryOut bool) {
	if bit(instr, 25) {
		imm := instr & 0xFF
		rotate := uint8((instr >> 8 & 0xF) * 2)
		if rotate == 0 {
			// A zero rotate is the plain immediate, not RRX.
			return imm, regs.C()
		}
		return ShiftImmediate(ShiftROR, imm, rotate, regs.C())
	}

	shiftType := uint8(instr >> 5 & 0x3)
	rm := regs.GetReg(uint8(instr & 0xF))
	registerShift := bit(instr, 4)

	if registerShift {
		rs := uint8(instr >> 8 & 0xF)
		amount := uint8(regs.GetReg(rs) & 0xFF)
		return ShiftRegister(shiftType, rm, amount, regs.C())
	}

	amount := uint8(instr >> 7 & 0x1F)
	return ShiftImmediate(shiftType, rm, amount, regs.C())
}

// AddressMode2 evaluates addressing mode 2 (word/byte load/store): P/U/W
// indexing over an immediate 12-bit offset or a shifted register offset.
// Grounded on original_source's process_addressing_mode.
func AddressMode2(regs *Registers, instr uint32) (uint32, AddressingType) {
	immediate := !bit(instr, 25)
	postIndexed := !bit(instr, 24)
	writeback := bit(instr, 21)
	add := bit(instr, 23)

	rn := uint8(instr >> 16 & 0xF)
	base := regs.GetReg(rn)

	var offset uint32
	if immediate {
		offset = instr & 0xFFF
	} else {
		shiftType := uint8(instr >> 5 & 0x3)
		rm := regs.GetReg(uint8(instr & 0xF))
		amount := uint8(instr >> 7 & 0x1F)
		offset, _ = ShiftImmediate(shiftType, rm, amount, regs.C())
	}

	var address uint32
	if add {
		address = base + offset
	} else {
		address = base - offset
	}

	if postIndexed {
		regs.SetReg(rn, address)
		return base, AddrPostIndexed
	}

	if writeback {
		regs.SetReg(rn, address)
		return address, AddrPreIndexed
	}
	return address, AddrOffset
}

// AddressMode3 evaluates addressing mode 3 (halfword/signed-byte load/store):
// an 8-bit immediate split across two nibbles, or a plain register offset,
// with the same P/U/W indexing as mode 2.
func AddressMode3(regs *Registers, instr uint32) (uint32, AddressingType) {
	immediate := bit(instr, 22)
	add := bit(instr, 23)
	postIndexed := !bit(instr, 24)

	var offset uint32
	if immediate {
		hi := instr >> 8 & 0xF
		lo := instr & 0xF
		offset = hi<<4 | lo
	} else {
		offset = regs.GetReg(uint8(instr & 0xF))
	}

	rn := uint8(instr >> 16 & 0xF)
	base := regs.GetReg(rn)

	var address uint32
	if add {
		address = base + offset
	} else {
		address = base - offset
	}

	if postIndexed {
		regs.SetReg(rn, address)
		return base, AddrPostIndexed
	}

	writeback := bit(instr, 21)
	if writeback {
		regs.SetReg(rn, address)
		return address, AddrPreIndexed
	}
	return address, AddrOffset
}

package cpu

// DecodeARM decodes a 32-bit ARM instruction word into a tagged ArmInstr.
// Decode is a pure function of its input: repeated calls on the same word
// return an equal value (SPEC_FULL.md §8, invariant 7).
//
// Grounded on LJS360d-RoBA/internal/cpu/arm_decode.go's top-level category
// dispatch, widened with the multiply/multiply-long/swap/MRS/MSR/BX/extra-load
// patterns original_source's arm.rs decodes but the teacher left as comments
// or never reached (it only inspected bits 27..26, two bits, rather than the
// full 27..25 class plus the "misc" sub-patterns within class 000/001).
func DecodeARM(instr uint32) ArmInstr {
	cond := Condition(instr >> 28 & 0xF)
	base := ArmInstr{Cond: cond, Raw: instr}

	class := instr >> 25 & 0x7

	switch class {
	case 0, 1: // data-processing space (register form / immediate form)
		if class == 0 {
			if instr&0x0FFFFFF0 == 0x012FFF10 {
				return decodeBX(base, instr)
			}
			if instr&0x0FC000F0 == 0x00000090 {
				return decodeMultiply(base, instr)
			}
			if instr&0x0F8000F0 == 0x00800090 {
				return decodeMultiplyLong(base, instr)
			}
			if instr&0x0FB00FF0 == 0x01000090 {
				return decodeSwap(base, instr)
			}
			if instr&0x0FBF0FFF == 0x010F0000 {
				return decodeMRS(base, instr)
			}
			if instr&0x0FB0FFF0 == 0x0120F000 {
				return decodeMSR(base, instr, false)
			}
			if bit(instr, 7) && bit(instr, 4) && (instr>>5&0x3) != 0 {
				return decodeHalfTransfer(base, instr)
			}
		} else {
			if instr&0x0FB0F000 == 0x0320F000 {
				return decodeMSR(base, instr, true)
			}
		}
		return decodeDataProcessing(base, instr, class == 1)

	case 2, 3: // single data transfer
		if class == 3 && bit(instr, 4) {
			base.Op = OpUndefined
			return base
		}
		return decodeSingleTransfer(base, instr, class == 3)

	case 4: // block data transfer
		return decodeBlockTransfer(base, instr)

	case 5: // branch / branch with link
		return decodeBranch(base, instr)

	case 6: // coprocessor load/store: no coprocessors modeled
		base.Op = OpUndefined
		return base

	default: // 7: coprocessor data-processing/register transfer, or SWI
		if instr>>24&0xF == 0xF {
			base.Op = OpSWI
			base.Immediate = instr & 0x00FFFFFF
			return base
		}
		base.Op = OpUndefined
		return base
	}
}

func decodeBX(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpBranchExchange
	base.Rm = uint8(instr & 0xF)
	return base
}

func decodeMultiply(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpMultiply
	base.Accumulate = bit(instr, 21)
	base.S = bit(instr, 20)
	base.Rd = uint8(instr >> 16 & 0xF)
	base.Rn = uint8(instr >> 12 & 0xF)
	base.Rs = uint8(instr >> 8 & 0xF)
	base.Rm = uint8(instr & 0xF)
	return base
}

func decodeMultiplyLong(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpMultiplyLong
	base.Signed = bit(instr, 22)
	base.Accumulate = bit(instr, 21)
	base.S = bit(instr, 20)
	base.RdHi = uint8(instr >> 16 & 0xF)
	base.RdLo = uint8(instr >> 12 & 0xF)
	base.Rs = uint8(instr >> 8 & 0xF)
	base.Rm = uint8(instr & 0xF)
	return base
}

func decodeSwap(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpSwap
	base.B = bit(instr, 22)
	base.Rn = uint8(instr >> 16 & 0xF)
	base.Rd = uint8(instr >> 12 & 0xF)
	base.Rm = uint8(instr & 0xF)
	return base
}

func decodeMRS(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpMRS
	base.ToCPSR = !bit(instr, 22)
	base.Rd = uint8(instr >> 12 & 0xF)
	return base
}

func decodeMSR(base ArmInstr, instr uint32, immediate bool) ArmInstr {
	base.Op = OpMSR
	base.ToCPSR = !bit(instr, 22)
	base.FieldMask = uint8(instr >> 16 & 0xF)
	base.I = immediate
	if immediate {
		imm := instr & 0xFF
		rotate := uint8(instr >> 8 & 0xF * 2)
		val := imm
		if rotate != 0 {
			val, _ = ShiftImmediate(ShiftROR, imm, rotate, false)
		}
		base.Immediate = val
	} else {
		base.Rm = uint8(instr & 0xF)
	}
	return base
}

func decodeHalfTransfer(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpHalfSignedTransfer
	base.P = bit(instr, 24)
	base.U = bit(instr, 23)
	base.I = bit(instr, 22)
	base.W = bit(instr, 21)
	base.L = bit(instr, 20)
	base.Rn = uint8(instr >> 16 & 0xF)
	base.Rd = uint8(instr >> 12 & 0xF)
	base.Rm = uint8(instr & 0xF)
	switch instr >> 5 & 0x3 {
	case 1:
		base.Half = HalfH
	case 2:
		base.Half = HalfSB
	case 3:
		base.Half = HalfSH
	}
	return base
}

func decodeDataProcessing(base ArmInstr, instr uint32, immediate bool) ArmInstr {
	base.Op = OpDataProc
	base.I = immediate
	base.DataOp = DataOp(instr >> 21 & 0xF)
	base.S = bit(instr, 20)
	base.Rn = uint8(instr >> 16 & 0xF)
	base.Rd = uint8(instr >> 12 & 0xF)
	return base
}

func decodeSingleTransfer(base ArmInstr, instr uint32, registerOffset bool) ArmInstr {
	base.Op = OpSingleTransfer
	base.I = registerOffset
	base.P = bit(instr, 24)
	base.U = bit(instr, 23)
	base.B = bit(instr, 22)
	base.W = bit(instr, 21)
	base.L = bit(instr, 20)
	base.Rn = uint8(instr >> 16 & 0xF)
	base.Rd = uint8(instr >> 12 & 0xF)
	return base
}

func decodeBlockTransfer(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpBlockTransfer
	base.P = bit(instr, 24)
	base.U = bit(instr, 23)
	base.UserBank = bit(instr, 22)
	base.W = bit(instr, 21)
	base.L = bit(instr, 20)
	base.Rn = uint8(instr >> 16 & 0xF)
	base.RegisterList = uint16(instr & 0xFFFF)
	return base
}

func decodeBranch(base ArmInstr, instr uint32) ArmInstr {
	base.Op = OpBranch
	base.Link = bit(instr, 24)
	offset := instr & 0x00FFFFFF
	if offset&0x00800000 != 0 {
		offset |= 0xFF000000
	}
	base.BranchOffset = int32(offset) << 2
	return base
}

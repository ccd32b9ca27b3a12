package cpu

// executeThumb dispatches a decoded ThumbInstr to its handler, reusing the
// flag-setting and addition helpers already written for the ARM execute path
// (SPEC_FULL.md §4.5 — the Thumb instruction set is a strict subset of ARM
// semantics, not an independent ALU). Grounded on original_source's
// lavender/src/emulator/armv4t/thumb.rs family dispatch; the teacher never
// had a working Thumb execute path to generalize from.
func (c *CPU) executeThumb(instr ThumbInstr) (uint32, error) {
	switch instr.Op {
	case ThumbMoveShifted:
		c.thumbMoveShifted(instr)
	case ThumbAddSub:
		c.thumbAddSub(instr)
	case ThumbImmediateOp:
		c.thumbImmediateOp(instr)
	case ThumbALU:
		c.thumbALU(instr)
	case ThumbHiRegBX:
		c.thumbHiRegBX(instr)
	case ThumbLiteralLoad:
		c.thumbLiteralLoad(instr)
	case ThumbLoadStoreReg:
		c.thumbLoadStoreReg(instr)
	case ThumbLoadStoreSignExt:
		c.thumbLoadStoreSignExt(instr)
	case ThumbLoadStoreImm:
		c.thumbLoadStoreImm(instr)
	case ThumbLoadStoreHalf:
		c.thumbLoadStoreHalf(instr)
	case ThumbSPRelLoadStore:
		c.thumbSPRelLoadStore(instr)
	case ThumbLoadAddress:
		c.thumbLoadAddress(instr)
	case ThumbAddSP:
		c.thumbAddSP(instr)
	case ThumbPushPop:
		c.thumbPushPop(instr)
	case ThumbBlockTransfer:
		c.thumbBlockTransfer(instr)
	case ThumbCondBranch:
		c.thumbCondBranch(instr)
	case ThumbSWI:
		c.raiseSWI()
	case ThumbBranch:
		c.regs.SetReg(15, c.regs.GetReg(15)+uint32(instr.Offset))
	case ThumbBranchLinkPrefix:
		c.thumbBranchLinkPrefix(instr)
	case ThumbBranchLinkSuffix:
		c.thumbBranchLinkSuffix(instr)
	default:
		c.raiseUndefined(uint32(instr.Raw))
	}
	return thumbCycleCost(instr), nil
}

func (c *CPU) thumbMoveShifted(instr ThumbInstr) {
	rs := c.regs.GetReg(instr.Rs)
	var result uint32
	var carry bool
	switch instr.Opcode {
	case 0:
		result, carry = ShiftImmediate(ShiftLSL, rs, uint8(instr.Imm), c.regs.C())
	case 1:
		result, carry = ShiftImmediate(ShiftLSR, rs, uint8(instr.Imm), c.regs.C())
	case 2:
		result, carry = ShiftImmediate(ShiftASR, rs, uint8(instr.Imm), c.regs.C())
	}
	c.regs.SetReg(instr.Rd, result)
	c.regs.SetN(result&0x80000000 != 0)
	c.regs.SetZ(result == 0)
	c.regs.SetC(carry)
}

func (c *CPU) thumbAddSub(instr ThumbInstr) {
	rs := c.regs.GetReg(instr.Rs)
	immediate := instr.Opcode&0x1 != 0
	subtract := instr.Opcode&0x2 != 0

	var operand uint32
	if immediate {
		operand = uint32(instr.Rn)
	} else {
		operand = c.regs.GetReg(instr.Rn)
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = addWithCarry(rs, ^operand, true)
	} else {
		result, carry, overflow = addWithCarry(rs, operand, false)
	}
	c.regs.SetReg(instr.Rd, result)
	c.regs.SetN(result&0x80000000 != 0)
	c.regs.SetZ(result == 0)
	c.regs.SetC(carry)
	c.regs.SetV(overflow)
}

func (c *CPU) thumbImmediateOp(instr ThumbInstr) {
	rd := c.regs.GetReg(instr.Rd)
	imm := instr.Imm

	var result uint32
	var carry, overflow bool
	compareOnly := false

	switch instr.Opcode {
	case 0: // MOV
		result = imm
	case 1: // CMP
		result, carry, overflow = addWithCarry(rd, ^imm, true)
		compareOnly = true
	case 2: // ADD
		result, carry, overflow = addWithCarry(rd, imm, false)
	case 3: // SUB
		result, carry, overflow = addWithCarry(rd, ^imm, true)
	}

	if !compareOnly {
		c.regs.SetReg(instr.Rd, result)
	}
	c.regs.SetN(result&0x80000000 != 0)
	c.regs.SetZ(result == 0)
	if instr.Opcode != 0 {
		c.regs.SetC(carry)
		c.regs.SetV(overflow)
	}
}

func (c *CPU) thumbALU(instr ThumbInstr) {
	rd := c.regs.GetReg(instr.Rd)
	rs := c.regs.GetReg(instr.Rs)

	var result uint32
	var carry, overflow bool
	logical := false
	compareOnly := false
	touchC := true

	switch instr.Opcode {
	case 0x0: // AND
		result, logical = rd&rs, true
	case 0x1: // EOR
		result, logical = rd^rs, true
	case 0x2: // LSL
		result, carry = ShiftRegister(ShiftLSL, rd, uint8(rs), c.regs.C())
		logical = true
	case 0x3: // LSR
		result, carry = ShiftRegister(ShiftLSR, rd, uint8(rs), c.regs.C())
		logical = true
	case 0x4: // ASR
		result, carry = ShiftRegister(ShiftASR, rd, uint8(rs), c.regs.C())
		logical = true
	case 0x5: // ADC
		result, carry, overflow = addWithCarry(rd, rs, c.regs.C())
	case 0x6: // SBC
		result, carry, overflow = addWithCarry(rd, ^rs, c.regs.C())
	case 0x7: // ROR
		result, carry = ShiftRegister(ShiftROR, rd, uint8(rs), c.regs.C())
		logical = true
	case 0x8: // TST
		result, logical, compareOnly = rd&rs, true, true
	case 0x9: // NEG
		result, carry, overflow = addWithCarry(0, ^rs, true)
	case 0xA: // CMP
		result, carry, overflow, compareOnly = addWithCarryResult(rd, ^rs, true)
	case 0xB: // CMN
		result, carry, overflow, compareOnly = addWithCarryResult(rd, rs, false)
	case 0xC: // ORR
		result, logical = rd|rs, true
	case 0xD: // MUL
		result, logical, touchC = rd*rs, true, false
	case 0xE: // BIC
		result, logical = rd&^rs, true
	case 0xF: // MVN
		result, logical = ^rs, true
	}

	if !compareOnly {
		c.regs.SetReg(instr.Rd, result)
	}
	c.regs.SetN(result&0x80000000 != 0)
	c.regs.SetZ(result == 0)
	if touchC && ((instr.Opcode >= 0x2 && instr.Opcode <= 0x4) || instr.Opcode == 0x7 || !logical) {
		c.regs.SetC(carry)
	}
	if !logical {
		c.regs.SetV(overflow)
	}
}

func (c *CPU) thumbHiRegBX(instr ThumbInstr) {
	rsIdx := instr.Rs
	if instr.H2 {
		rsIdx += 8
	}
	rdIdx := instr.Rd
	if instr.H1 {
		rdIdx += 8
	}
	rs := c.regs.GetReg(rsIdx)

	switch instr.Opcode {
	case 0: // ADD
		c.regs.SetReg(rdIdx, c.regs.GetReg(rdIdx)+rs)
	case 1: // CMP
		result, carry, overflow := addWithCarry(c.regs.GetReg(rdIdx), ^rs, true)
		c.regs.SetN(result&0x80000000 != 0)
		c.regs.SetZ(result == 0)
		c.regs.SetC(carry)
		c.regs.SetV(overflow)
	case 2: // MOV
		c.regs.SetReg(rdIdx, rs)
	case 3: // BX
		c.regs.SetThumb(rs&1 != 0)
		c.regs.SetReg(15, rs&^1)
	}
}

func (c *CPU) thumbLiteralLoad(instr ThumbInstr) {
	base := c.regs.GetReg(15) &^ 3
	value := c.bus.ReadWord(base + instr.Imm)
	c.regs.SetReg(instr.Rd, value)
}

func (c *CPU) thumbLoadStoreReg(instr ThumbInstr) {
	addr := c.regs.GetReg(instr.Rb) + c.regs.GetReg(instr.Ro)
	if instr.Load {
		if instr.Byte {
			c.regs.SetReg(instr.Rd, uint32(c.bus.ReadByte(addr)))
		} else {
			c.regs.SetReg(instr.Rd, c.bus.ReadWord(addr))
		}
		return
	}
	if instr.Byte {
		c.bus.WriteByte(addr, byte(c.regs.GetReg(instr.Rd)))
	} else {
		c.bus.WriteWord(addr, c.regs.GetReg(instr.Rd))
	}
}

func (c *CPU) thumbLoadStoreSignExt(instr ThumbInstr) {
	addr := c.regs.GetReg(instr.Rb) + c.regs.GetReg(instr.Ro)
	sign := instr.Sign
	half := !instr.Byte // H bit from decode: Byte holds the inverted H bit

	switch {
	case !sign && !half: // STRH
		c.bus.WriteHalf(addr, uint16(c.regs.GetReg(instr.Rd)))
	case !sign && half: // LDRH
		c.regs.SetReg(instr.Rd, uint32(c.bus.ReadHalf(addr)))
	case sign && !half: // LDSB
		c.regs.SetReg(instr.Rd, uint32(int32(int8(c.bus.ReadByte(addr)))))
	case sign && half: // LDSH
		c.regs.SetReg(instr.Rd, uint32(int32(int16(c.bus.ReadHalf(addr)))))
	}
}

func (c *CPU) thumbLoadStoreImm(instr ThumbInstr) {
	var addr uint32
	if instr.Byte {
		addr = c.regs.GetReg(instr.Rb) + instr.Imm
	} else {
		addr = c.regs.GetReg(instr.Rb) + instr.Imm*4
	}
	if instr.Load {
		if instr.Byte {
			c.regs.SetReg(instr.Rd, uint32(c.bus.ReadByte(addr)))
		} else {
			c.regs.SetReg(instr.Rd, c.bus.ReadWord(addr))
		}
		return
	}
	if instr.Byte {
		c.bus.WriteByte(addr, byte(c.regs.GetReg(instr.Rd)))
	} else {
		c.bus.WriteWord(addr, c.regs.GetReg(instr.Rd))
	}
}

func (c *CPU) thumbLoadStoreHalf(instr ThumbInstr) {
	addr := c.regs.GetReg(instr.Rb) + instr.Imm
	if instr.Load {
		c.regs.SetReg(instr.Rd, uint32(c.bus.ReadHalf(addr)))
		return
	}
	c.bus.WriteHalf(addr, uint16(c.regs.GetReg(instr.Rd)))
}

func (c *CPU) thumbSPRelLoadStore(instr ThumbInstr) {
	addr := c.regs.GetReg(13) + instr.Imm
	if instr.Load {
		c.regs.SetReg(instr.Rd, c.bus.ReadWord(addr))
		return
	}
	c.bus.WriteWord(addr, c.regs.GetReg(instr.Rd))
}

func (c *CPU) thumbLoadAddress(instr ThumbInstr) {
	var base uint32
	if instr.Sign { // SP
		base = c.regs.GetReg(13)
	} else { // PC
		base = c.regs.GetReg(15) &^ 3
	}
	c.regs.SetReg(instr.Rd, base+instr.Imm)
}

func (c *CPU) thumbAddSP(instr ThumbInstr) {
	sp := c.regs.GetReg(13)
	if instr.Sign {
		c.regs.SetReg(13, sp-uint32(instr.Offset))
	} else {
		c.regs.SetReg(13, sp+uint32(instr.Offset))
	}
}

func (c *CPU) thumbPushPop(instr ThumbInstr) {
	if instr.Load { // POP
		sp := c.regs.GetReg(13)
		for i := uint8(0); i < 8; i++ {
			if instr.RegisterList&(1<<i) == 0 {
				continue
			}
			c.regs.SetReg(i, c.bus.ReadWord(sp))
			sp += 4
		}
		if instr.LoadPC {
			c.regs.SetReg(15, c.bus.ReadWord(sp)&^1)
			sp += 4
		}
		c.regs.SetReg(13, sp)
		return
	}

	// PUSH: store low-to-high into descending memory, LR last if present.
	count := popcount16(instr.RegisterList)
	if instr.StoreLR {
		count++
	}
	sp := c.regs.GetReg(13) - uint32(count)*4
	cur := sp
	for i := uint8(0); i < 8; i++ {
		if instr.RegisterList&(1<<i) == 0 {
			continue
		}
		c.bus.WriteWord(cur, c.regs.GetReg(i))
		cur += 4
	}
	if instr.StoreLR {
		c.bus.WriteWord(cur, c.regs.GetReg(14))
	}
	c.regs.SetReg(13, sp)
}

func (c *CPU) thumbBlockTransfer(instr ThumbInstr) {
	base := c.regs.GetReg(instr.Rb)
	cur := base
	for i := uint8(0); i < 8; i++ {
		if instr.RegisterList&(1<<i) == 0 {
			continue
		}
		if instr.Load {
			c.regs.SetReg(i, c.bus.ReadWord(cur))
		} else {
			c.bus.WriteWord(cur, c.regs.GetReg(i))
		}
		cur += 4
	}
	c.regs.SetReg(instr.Rb, cur)
}

func (c *CPU) thumbCondBranch(instr ThumbInstr) {
	if !c.regs.CheckCondition(instr.Cond) {
		return
	}
	c.regs.SetReg(15, c.regs.GetReg(15)+uint32(instr.Offset))
}

// thumbBranchLinkPrefix stashes the high 11 bits (shifted into place) into LR;
// the suffix half completes the 22-bit signed offset against the prefix's PC.
func (c *CPU) thumbBranchLinkPrefix(instr ThumbInstr) {
	offset := signExtend(instr.Imm, 11) << 12
	c.regs.SetReg(14, c.regs.GetReg(15)+offset)
}

func (c *CPU) thumbBranchLinkSuffix(instr ThumbInstr) {
	lr := c.regs.GetReg(14)
	target := lr + instr.Imm<<1
	nextInstr := c.regs.PC() | 1
	c.regs.SetReg(15, target)
	c.regs.SetReg(14, nextInstr)
}

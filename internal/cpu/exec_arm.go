package cpu

// executeARM dispatches a decoded ArmInstr to its handler and returns the
// cycle cost (and a ModeFault if the handler touched SPSR from USR/SYS).
//
// Grounded on LJS360d-RoBA/internal/cpu/arm_exec.go's per-opcode function
// layout, rewritten against the CPU's actual private regs/bus fields (the
// teacher's file accessed c.Registers.PC etc. directly, which never matched
// cpu.go's interface-based design), with ADC/SBC/RSC now threading the real
// carry-in the teacher left as `// TODO get cy` stubs, and cross-checked
// against original_source's arm.rs for exact flag semantics.
func (c *CPU) executeARM(instr ArmInstr) (uint32, error) {
	switch instr.Op {
	case OpDataProc:
		c.execDataProcessing(instr)
	case OpMultiply:
		c.execMultiply(instr)
	case OpMultiplyLong:
		c.execMultiplyLong(instr)
	case OpSingleTransfer:
		c.execSingleTransfer(instr)
	case OpHalfSignedTransfer:
		c.execHalfSignedTransfer(instr)
	case OpBlockTransfer:
		c.execBlockTransfer(instr)
	case OpBranch:
		c.execBranch(instr)
	case OpBranchExchange:
		c.execBranchExchange(instr)
	case OpSWI:
		c.raiseSWI()
	case OpSwap:
		c.execSwap(instr)
	case OpMRS:
		if err := c.execMRS(instr); err != nil {
			return cycleCost(instr), err
		}
	case OpMSR:
		if err := c.execMSR(instr); err != nil {
			return cycleCost(instr), err
		}
	default: // OpUndefined, and anything else that fell through decode
		c.raiseUndefined(instr.Raw)
	}
	return cycleCost(instr), nil
}

// addWithCarry is the shared ALU adder: ARM subtraction is computed as
// addition of the complement, so every arithmetic data-processing opcode
// below reduces to a call here.
func addWithCarry(a, b uint32, carryIn bool) (result uint32, carryOut, overflow bool) {
	sum := uint64(a) + uint64(b)
	if carryIn {
		sum++
	}
	result = uint32(sum)
	carryOut = sum > 0xFFFFFFFF
	overflow = (a^b)&0x80000000 == 0 && (a^result)&0x80000000 != 0
	return
}

func (c *CPU) execDataProcessing(instr ArmInstr) {
	rn := c.regs.GetReg(instr.Rn)
	op2, shifterCarry := Operand2(c.regs, instr.Raw)

	var result uint32
	var carry, overflow bool
	logical := false
	compareOnly := false

	switch instr.DataOp {
	case DataAND:
		result, carry, logical = rn&op2, shifterCarry, true
	case DataEOR:
		result, carry, logical = rn^op2, shifterCarry, true
	case DataSUB:
		result, carry, overflow = addWithCarry(rn, ^op2, true)
	case DataRSB:
		result, carry, overflow = addWithCarry(op2, ^rn, true)
	case DataADD:
		result, carry, overflow = addWithCarry(rn, op2, false)
	case DataADC:
		result, carry, overflow = addWithCarry(rn, op2, c.regs.C())
	case DataSBC:
		result, carry, overflow = addWithCarry(rn, ^op2, c.regs.C())
	case DataRSC:
		result, carry, overflow = addWithCarry(op2, ^rn, c.regs.C())
	case DataTST:
		result, carry, logical, compareOnly = rn&op2, shifterCarry, true, true
	case DataTEQ:
		result, carry, logical, compareOnly = rn^op2, shifterCarry, true, true
	case DataCMP:
		result, carry, overflow, compareOnly = addWithCarryResult(rn, ^op2, true)
	case DataCMN:
		result, carry, overflow, compareOnly = addWithCarryResult(rn, op2, false)
	case DataORR:
		result, carry, logical = rn|op2, shifterCarry, true
	case DataMOV:
		result, carry, logical = op2, shifterCarry, true
	case DataBIC:
		result, carry, logical = rn&^op2, shifterCarry, true
	case DataMVN:
		result, carry, logical = ^op2, shifterCarry, true
	}

	if !compareOnly {
		if instr.Rd == 15 {
			c.regs.SetReg(15, result)
			if instr.S {
				if spsr, err := c.regs.GetSPSR(); err == nil {
					c.regs.SetCPSR(spsr)
				}
			}
			return
		}
		c.regs.SetReg(instr.Rd, result)
	}

	if instr.S || compareOnly {
		c.regs.SetN(result&0x80000000 != 0)
		c.regs.SetZ(result == 0)
		c.regs.SetC(carry)
		if !logical {
			c.regs.SetV(overflow)
		}
	}
}

// addWithCarryResult adapts addWithCarry's 3-value return to the 4-value
// shape execDataProcessing's switch wants for the compare-only opcodes.
func addWithCarryResult(a, b uint32, carryIn bool) (uint32, bool, bool, bool) {
	result, carry, overflow := addWithCarry(a, b, carryIn)
	return result, carry, overflow, true
}

func (c *CPU) execMultiply(instr ArmInstr) {
	rm := c.regs.GetReg(instr.Rm)
	rs := c.regs.GetReg(instr.Rs)
	result := rm * rs
	if instr.Accumulate {
		result += c.regs.GetReg(instr.Rn)
	}
	c.regs.SetReg(instr.Rd, result)
	if instr.S {
		c.regs.SetN(result&0x80000000 != 0)
		c.regs.SetZ(result == 0)
		// C and V are architecturally unpredictable here; left unchanged
		// per SPEC_FULL.md's resolved Open Question.
	}
}

func (c *CPU) execMultiplyLong(instr ArmInstr) {
	rm := c.regs.GetReg(instr.Rm)
	rs := c.regs.GetReg(instr.Rs)

	var product uint64
	if instr.Signed {
		product = uint64(int64(int32(rm)) * int64(int32(rs)))
	} else {
		product = uint64(rm) * uint64(rs)
	}
	if instr.Accumulate {
		hi := uint64(c.regs.GetReg(instr.RdHi))
		lo := uint64(c.regs.GetReg(instr.RdLo))
		product += hi<<32 | lo
	}

	hi := uint32(product >> 32)
	lo := uint32(product)
	c.regs.SetReg(instr.RdHi, hi)
	c.regs.SetReg(instr.RdLo, lo)
	if instr.S {
		c.regs.SetN(hi&0x80000000 != 0)
		c.regs.SetZ(product == 0)
	}
}

func (c *CPU) execSwap(instr ArmInstr) {
	addr := c.regs.GetReg(instr.Rn)
	rm := c.regs.GetReg(instr.Rm)
	if instr.B {
		old := c.bus.ReadByte(addr)
		c.bus.WriteByte(addr, byte(rm))
		c.regs.SetReg(instr.Rd, uint32(old))
		return
	}
	old := c.bus.ReadWord(addr)
	c.bus.WriteWord(addr, rm)
	c.regs.SetReg(instr.Rd, old)
}

func (c *CPU) execMRS(instr ArmInstr) error {
	if instr.ToCPSR {
		c.regs.SetReg(instr.Rd, c.regs.CPSR())
		return nil
	}
	v, err := c.regs.GetSPSR()
	if err != nil {
		return err
	}
	c.regs.SetReg(instr.Rd, v)
	return nil
}

func psrFieldMask(fm uint8) uint32 {
	var mask uint32
	if fm&0x1 != 0 {
		mask |= 0x000000FF // control
	}
	if fm&0x2 != 0 {
		mask |= 0x0000FF00 // extension
	}
	if fm&0x4 != 0 {
		mask |= 0x00FF0000 // status
	}
	if fm&0x8 != 0 {
		mask |= 0xFF000000 // flags
	}
	return mask
}

func (c *CPU) execMSR(instr ArmInstr) error {
	var value uint32
	if instr.I {
		value = instr.Immediate
	} else {
		value = c.regs.GetReg(instr.Rm)
	}
	mask := psrFieldMask(instr.FieldMask)

	if instr.ToCPSR {
		c.regs.SetCPSR(c.regs.CPSR()&^mask | value&mask)
		return nil
	}
	cur, err := c.regs.GetSPSR()
	if err != nil {
		return err
	}
	return c.regs.SetSPSR(cur&^mask | value&mask)
}

func (c *CPU) execBranch(instr ArmInstr) {
	target := c.regs.GetReg(15) + uint32(instr.BranchOffset)
	if instr.Link {
		c.regs.SetReg(14, c.regs.PC())
	}
	c.regs.SetReg(15, target)
}

func (c *CPU) execBranchExchange(instr ArmInstr) {
	rm := c.regs.GetReg(instr.Rm)
	c.regs.SetThumb(rm&1 != 0)
	c.regs.SetReg(15, rm&^1)
}

func (c *CPU) execSingleTransfer(instr ArmInstr) {
	addr, _ := AddressMode2(c.regs, instr.Raw)

	if instr.L {
		if instr.B {
			c.regs.SetReg(instr.Rd, uint32(c.bus.ReadByte(addr)))
			return
		}
		value := c.bus.ReadWord(addr)
		if rot := (addr & 3) * 8; rot != 0 {
			value = value<<(32-rot) | value>>rot
		}
		if instr.Rd == 15 {
			c.regs.SetReg(15, value&^3)
			return
		}
		c.regs.SetReg(instr.Rd, value)
		return
	}

	value := c.regs.GetReg(instr.Rd)
	if instr.B {
		c.bus.WriteByte(addr, byte(value))
	} else {
		c.bus.WriteWord(addr, value)
	}
}

func (c *CPU) execHalfSignedTransfer(instr ArmInstr) {
	addr, _ := AddressMode3(c.regs, instr.Raw)

	if instr.L {
		var value uint32
		switch instr.Half {
		case HalfH:
			value = uint32(c.bus.ReadHalf(addr))
		case HalfSB:
			value = uint32(int32(int8(c.bus.ReadByte(addr))))
		case HalfSH:
			value = uint32(int32(int16(c.bus.ReadHalf(addr))))
		}
		c.regs.SetReg(instr.Rd, value)
		return
	}

	value := c.regs.GetReg(instr.Rd)
	c.bus.WriteHalf(addr, uint16(value))
}

func (c *CPU) execBlockTransfer(instr ArmInstr) {
	rn := instr.Rn
	base := c.regs.GetReg(rn)
	count := uint32(popcount16(instr.RegisterList))

	// The four P/U combinations (IA/IB/DA/DB) reduce to a single starting
	// address plus a uniform +4-per-register walk, ascending through
	// register numbers in the list (SPEC_FULL.md §4.4).
	var start uint32
	if instr.U {
		if instr.P {
			start = base + 4 // IB
		} else {
			start = base // IA
		}
	} else {
		if instr.P {
			start = base - count*4 // DB
		} else {
			start = base - count*4 + 4 // DA
		}
	}

	var final uint32
	if instr.U {
		final = base + count*4
	} else {
		final = base - count*4
	}

	pcInList := instr.RegisterList&(1<<15) != 0
	restoreCPSR := instr.L && instr.UserBank && pcInList
	// The `^` suffix means two different things depending on L and whether
	// PC is in the list: STM^ always transfers the USR/SYS bank; LDM^ does
	// the same only when PC is absent (PC present means CPSR-restore
	// instead, handled via restoreCPSR above) (SPEC_FULL.md §4.4).
	userBankTransfer := instr.UserBank && (!instr.L || !pcInList)

	cur := start
	for i := uint8(0); i < 16; i++ {
		if instr.RegisterList&(1<<i) == 0 {
			continue
		}
		if instr.L {
			value := c.bus.ReadWord(cur)
			if i == 15 {
				if restoreCPSR {
					if spsr, err := c.regs.GetSPSR(); err == nil {
						c.regs.SetCPSR(spsr)
					}
				}
				c.regs.SetReg(15, value&^3)
			} else if userBankTransfer {
				c.regs.SetUserReg(i, value)
			} else {
				c.regs.SetReg(i, value)
			}
		} else {
			if userBankTransfer && i != 15 {
				c.bus.WriteWord(cur, c.regs.GetUserReg(i))
			} else {
				c.bus.WriteWord(cur, c.regs.GetReg(i))
			}
		}
		cur += 4
	}

	if instr.W {
		c.regs.SetReg(rn, final)
	}
}

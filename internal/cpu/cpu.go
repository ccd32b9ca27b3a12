package cpu

import (
	"github.com/aslilac/lavender/internal/interfaces"
	"github.com/aslilac/lavender/util/dbg"
)

// FrameCycleBudget is 16.78 MHz / 60 Hz, the number of cycles step_frame
// advances per call (SPEC_FULL.md §4.6).
const FrameCycleBudget = 279_666

const (
	vectorReset = 0x00000000
	vectorUND   = 0x00000004
	vectorSWI   = 0x00000008
)

// CPU is the ARM7TDMI façade: fetch -> decode -> execute, with the ARM
// pipeline's PC-ahead-by-8 (ARM) / PC-ahead-by-4 (Thumb) convention, and a
// per-frame cycle budget. Grounded on LJS360d-RoBA/internal/cpu/cpu.go's
// Reset/Step/FlushPipeline shape, generalized to the frame-budget loop the
// teacher's free-running main.go loop never had.
type CPU struct {
	regs   *Registers
	bus    interfaces.Bus
	cycles uint64

	frameRemainder uint32
}

// NewCPU wires a CPU to the given bus. The register file starts in its
// post-reset state; callers that want the reset vector honored should call
// Reset again once ROM/BIOS content is in place.
func NewCPU(bus interfaces.Bus) *CPU {
	return &CPU{
		regs: NewRegisters(),
		bus:  bus,
	}
}

// Registers exposes the register file for host-boundary reads.
func (c *CPU) Registers() *Registers { return c.regs }

// Reset re-initializes the register file and loads PC from the reset vector.
func (c *CPU) Reset() {
	c.regs.Reset()
	c.regs.SetPC(c.bus.ReadWord(vectorReset))
	c.cycles = 0
	c.frameRemainder = 0
}

// StepInstruction fetches, decodes, and executes a single instruction,
// returning its cycle cost. The only error it can return is ModeFault,
// raised when a handler touches SPSR from USR/SYS; every other fault is
// handled internally by entering an ARM exception (SPEC_FULL.md §7).
func (c *CPU) StepInstruction() (uint32, error) {
	if c.regs.Thumb() {
		return c.stepThumb()
	}
	return c.stepArm()
}

func (c *CPU) stepArm() (uint32, error) {
	pc := c.regs.PC()
	word := c.bus.ReadWord(pc)
	c.regs.SetPC(pc + 4)

	instr := DecodeARM(word)
	if !c.regs.CheckCondition(instr.Cond) {
		c.cycles++
		return 1, nil
	}

	cost, err := c.executeARM(instr)
	c.cycles += uint64(cost)
	return cost, err
}

func (c *CPU) stepThumb() (uint32, error) {
	pc := c.regs.PC()
	half := c.bus.ReadHalf(pc)
	c.regs.SetPC(pc + 2)

	instr := DecodeThumb(half)
	cost, err := c.executeThumb(instr)
	c.cycles += uint64(cost)
	return cost, err
}

// StepFrame adds FrameCycleBudget to the carried remainder and runs
// StepInstruction until the budget is exhausted, saturating at zero. A
// ModeFault aborts the frame early and is returned to the host.
func (c *CPU) StepFrame() error {
	c.frameRemainder += FrameCycleBudget
	for c.frameRemainder > 0 {
		cost, err := c.StepInstruction()
		if err != nil {
			c.frameRemainder = 0
			return err
		}
		if cost >= c.frameRemainder {
			c.frameRemainder = 0
			return nil
		}
		c.frameRemainder -= cost
	}
	return nil
}

// PeekInstruction returns the raw word (ARM) or zero-extended halfword
// (Thumb) at the current PC without advancing it, for the host boundary's
// read_next_instruction operation.
func (c *CPU) PeekInstruction() uint32 {
	if c.regs.Thumb() {
		return uint32(c.bus.ReadHalf(c.regs.PC()))
	}
	return c.bus.ReadWord(c.regs.PC())
}

// enterException performs the mode switch, SPSR/LR save, and vector jump
// shared by UND and SWI entry.
func (c *CPU) enterException(mode Mode, vector uint32, returnPC uint32) {
	savedCPSR := c.regs.CPSR()
	c.regs.SetMode(mode)
	if ptr := c.regs.spsrForPtr(mode); ptr != nil {
		*ptr = savedCPSR
	}
	c.regs.SetReg(14, returnPC)
	c.regs.SetThumb(false)
	c.regs.SetIRQDisabled(true)
	if mode == ModeFIQ {
		c.regs.SetFIQDisabled(true)
	}
	c.regs.SetPC(vector)
}

func (c *CPU) raiseUndefined(instr uint32) {
	dbg.Printf("cpu: undefined instruction 0x%08X at PC=0x%08X", instr, c.regs.PC())
	c.enterException(ModeUND, vectorUND, c.regs.PC())
}

func (c *CPU) raiseSWI() {
	c.enterException(ModeSVC, vectorSWI, c.regs.PC())
}

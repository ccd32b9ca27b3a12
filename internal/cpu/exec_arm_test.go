package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCPU() (*CPU, *flatBus) {
	bus := &flatBus{}
	c := NewCPU(bus)
	c.Reset()
	c.regs.SetPC(0x8000)
	return c, bus
}

func TestExecSUBSetsCarryOnNoBorrow(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(1, 10)
	c.regs.SetReg(2, 3)
	// SUBS R0, R1, R2
	bus.WriteWord(0x8000, 0xE0510002)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), c.regs.GetReg(0))
	assert.True(t, c.regs.C(), "no borrow means carry set")
	assert.False(t, c.regs.Z())
	assert.False(t, c.regs.N())
}

func TestExecSUBClearsCarryOnBorrow(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(1, 3)
	c.regs.SetReg(2, 10)
	bus.WriteWord(0x8000, 0xE0510002) // SUBS R0, R1, R2
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFF9), c.regs.GetReg(0), "3-10 as a two's-complement 32-bit value")
	assert.False(t, c.regs.C(), "borrow clears carry")
	assert.True(t, c.regs.N())
}

func TestExecADDSetsOverflow(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(1, 0x7FFFFFFF)
	c.regs.SetReg(2, 1)
	bus.WriteWord(0x8000, 0xE0910002) // ADDS R0, R1, R2
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000000), c.regs.GetReg(0))
	assert.True(t, c.regs.V(), "signed overflow from positive+positive=negative")
	assert.True(t, c.regs.N())
}

func TestExecBlockTransferIA(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(13, 0x9000)
	bus.WriteWord(0x9000, 0x11111111)
	bus.WriteWord(0x9004, 0x22222222)
	// LDMIA R13!, {R0, R1}
	bus.WriteWord(0x8000, 0xE8BD0003)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11111111), c.regs.GetReg(0))
	assert.Equal(t, uint32(0x22222222), c.regs.GetReg(1))
	assert.Equal(t, uint32(0x9008), c.regs.GetReg(13), "writeback advances by 4*count")
}

func TestExecBlockTransferIB(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(13, 0x9000)
	bus.WriteWord(0x9004, 0x11111111)
	bus.WriteWord(0x9008, 0x22222222)
	// LDMIB R13!, {R0, R1}
	bus.WriteWord(0x8000, 0xE9BD0003)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11111111), c.regs.GetReg(0), "IB starts its first transfer at base+4")
	assert.Equal(t, uint32(0x22222222), c.regs.GetReg(1))
	assert.Equal(t, uint32(0x9008), c.regs.GetReg(13))
}

func TestExecBlockTransferDB(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(13, 0x9008)
	bus.WriteWord(0x9000, 0x11111111)
	bus.WriteWord(0x9004, 0x22222222)
	// LDMDB R13!, {R0, R1}
	bus.WriteWord(0x8000, 0xE93D0003)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11111111), c.regs.GetReg(0))
	assert.Equal(t, uint32(0x22222222), c.regs.GetReg(1))
	assert.Equal(t, uint32(0x9000), c.regs.GetReg(13), "DB's writeback lands exactly count*4 below the original base")
}

func TestExecBlockTransferDA(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(13, 0x9004)
	bus.WriteWord(0x9000, 0x11111111)
	bus.WriteWord(0x9004, 0x22222222)
	// LDMDA R13!, {R0, R1}
	bus.WriteWord(0x8000, 0xE83D0003)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11111111), c.regs.GetReg(0), "DA's lowest register lands at base-4*(count-1)")
	assert.Equal(t, uint32(0x22222222), c.regs.GetReg(1), "DA's highest register lands exactly at base")
	assert.Equal(t, uint32(0x8FFC), c.regs.GetReg(13), "writeback is always base-4*count regardless of P")
}

func TestExecSTMUserBankTransfersUSRRegisterNotCurrentBank(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetMode(ModeUSR)
	c.regs.SetReg(13, 0x1111)
	c.regs.SetMode(ModeIRQ)
	c.regs.SetReg(13, 0x2222)
	c.regs.SetReg(0, 0x9000)
	// STMIA R0, {R13}^
	bus.WriteWord(0x8000, 0xE8C02000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1111), bus.ReadWord(0x9000), "STM^ always transfers the USR bank, even from IRQ mode")
}

func TestExecLDMUserBankWithoutPCLoadsIntoUSRRegister(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetMode(ModeIRQ)
	c.regs.SetReg(13, 0x4444)
	c.regs.SetReg(0, 0x9000)
	bus.WriteWord(0x9000, 0x3333)
	// LDMIA R0, {R13}^
	bus.WriteWord(0x8000, 0xE8D02000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x4444), c.regs.GetReg(13), "IRQ's own banked R13 is untouched by a PC-less LDM^")
	c.regs.SetMode(ModeUSR)
	assert.Equal(t, uint32(0x3333), c.regs.GetReg(13), "LDM^ without PC loads into the USR bank, not the current one")
}

func TestExecSingleTransferRotatesMisalignedLoad(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.SetReg(1, 0x9002)
	bus.WriteWord(0x9000, 0x12345678)
	// LDR R0, [R1]
	bus.WriteWord(0x8000, 0xE5910000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	// A misaligned word load rotates the aligned word right by (addr&3)*8 bits.
	assert.Equal(t, uint32(0x56781234), c.regs.GetReg(0))
}

func TestExecMSRUpdatesOnlyMaskedFields(t *testing.T) {
	c, _ := newTestCPU()
	c.regs.SetCPSR(0x00000010) // USR mode, all flags clear
	c.regs.SetReg(0, 0xF0000000)
	// MSR CPSR_f, R0 (flags field only)
	bus := c.bus.(*flatBus)
	bus.WriteWord(0x8000, 0xE128F000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, Mode(0x10), c.regs.Mode(), "mode field untouched since fsxc field mask excluded control")
	assert.True(t, c.regs.N())
	assert.True(t, c.regs.Z())
	assert.True(t, c.regs.C())
	assert.True(t, c.regs.V())
}

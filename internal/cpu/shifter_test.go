package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftImmediateLSLZeroPassesThrough(t *testing.T) {
	v, c := ShiftImmediate(ShiftLSL, 0x1234, 0, true)
	assert.Equal(t, uint32(0x1234), v)
	assert.True(t, c, "LSL#0 leaves carry-in unchanged")
}

func TestShiftImmediateLSRZeroIsShiftBy32(t *testing.T) {
	v, c := ShiftImmediate(ShiftLSR, 0x80000000, 0, false)
	assert.Equal(t, uint32(0), v)
	assert.True(t, c, "LSR#0 means LSR#32, so carry-out is the top bit")
}

func TestShiftImmediateASRZeroIsShiftBy32(t *testing.T) {
	v, c := ShiftImmediate(ShiftASR, 0x80000000, 0, false)
	assert.Equal(t, uint32(0xFFFFFFFF), v, "ASR#32 of a negative value saturates to all-ones")
	assert.True(t, c)

	v, c = ShiftImmediate(ShiftASR, 0x7FFFFFFF, 0, false)
	assert.Equal(t, uint32(0), v)
	assert.False(t, c)
}

func TestShiftImmediateRORZeroIsRRX(t *testing.T) {
	v, c := ShiftImmediate(ShiftROR, 0x00000002, 0, true)
	assert.Equal(t, uint32(0x80000001), v, "RRX rotates in the old carry at bit 31")
	assert.False(t, c, "carry-out is the bit rotated out at bit 0")
}

func TestShiftRegisterZeroAlwaysPassesThrough(t *testing.T) {
	// Unlike the immediate form, a register-specified shift amount of zero
	// never triggers RRX or the LSR/ASR-by-32 special case.
	v, c := ShiftRegister(ShiftROR, 0x00000002, 0, true)
	assert.Equal(t, uint32(0x00000002), v)
	assert.True(t, c)

	v, c = ShiftRegister(ShiftLSR, 0x80000000, 0, false)
	assert.Equal(t, uint32(0x80000000), v)
	assert.False(t, c)
}

func TestShiftRegisterSaturatesAt32(t *testing.T) {
	v, c := ShiftRegister(ShiftLSL, 0xFFFFFFFF, 32, false)
	assert.Equal(t, uint32(0), v)
	assert.True(t, c)

	v, c = ShiftRegister(ShiftLSL, 0xFFFFFFFF, 33, false)
	assert.Equal(t, uint32(0), v)
	assert.False(t, c)
}

func TestOperand2ImmediateRotate(t *testing.T) {
	r := NewRegisters()
	// 8-bit immediate 0xFF rotated right by 8 (rotate field = 4) -> 0xFF000000
	instr := uint32(0x02000000) | 4<<8 | 0xFF
	instr |= 1 << 25 // I bit
	v, _ := Operand2(r, instr)
	assert.Equal(t, uint32(0xFF000000), v)
}

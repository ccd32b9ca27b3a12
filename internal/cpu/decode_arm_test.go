package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Decode is pure: the same word always decodes to an equal ArmInstr.
func TestDecodeARMIsPure(t *testing.T) {
	word := uint32(0xE0812003) // ADD R2, R1, R3
	a := DecodeARM(word)
	b := DecodeARM(word)
	assert.Equal(t, a, b)
}

func TestDecodeARMDataProcessingRegister(t *testing.T) {
	instr := DecodeARM(0xE0812003) // ADD R2, R1, R3
	assert.Equal(t, OpDataProc, instr.Op)
	assert.Equal(t, DataADD, instr.DataOp)
	assert.False(t, instr.I)
	assert.Equal(t, uint8(1), instr.Rn)
	assert.Equal(t, uint8(2), instr.Rd)
	assert.Equal(t, CondAL, instr.Cond)
}

func TestDecodeARMBranchWithLink(t *testing.T) {
	instr := DecodeARM(0xEB000002) // BL #8
	assert.Equal(t, OpBranch, instr.Op)
	assert.True(t, instr.Link)
	assert.Equal(t, int32(8), instr.BranchOffset)
}

func TestDecodeARMBranchNegativeOffset(t *testing.T) {
	instr := DecodeARM(0xEAFFFFFE) // B #-8
	assert.Equal(t, OpBranch, instr.Op)
	assert.Equal(t, int32(-8), instr.BranchOffset)
}

func TestDecodeARMBranchExchange(t *testing.T) {
	instr := DecodeARM(0xE12FFF1E) // BX LR
	assert.Equal(t, OpBranchExchange, instr.Op)
	assert.Equal(t, uint8(14), instr.Rm)
}

func TestDecodeARMMultiply(t *testing.T) {
	instr := DecodeARM(0xE0050291) // MUL R5, R1, R2
	assert.Equal(t, OpMultiply, instr.Op)
	assert.Equal(t, uint8(5), instr.Rd)
	assert.Equal(t, uint8(1), instr.Rm)
	assert.Equal(t, uint8(2), instr.Rs)
}

func TestDecodeARMSingleTransferImmediateOffset(t *testing.T) {
	instr := DecodeARM(0xE5912004) // LDR R2, [R1, #4]
	assert.Equal(t, OpSingleTransfer, instr.Op)
	assert.True(t, instr.L)
	assert.False(t, instr.B)
	assert.Equal(t, uint8(1), instr.Rn)
	assert.Equal(t, uint8(2), instr.Rd)
}

func TestDecodeARMBlockTransfer(t *testing.T) {
	instr := DecodeARM(0xE8BD8000) // POP {R15} style: LDMIA R13!, {R15}
	assert.Equal(t, OpBlockTransfer, instr.Op)
	assert.True(t, instr.L)
	assert.True(t, instr.W)
	assert.Equal(t, uint16(0x8000), instr.RegisterList)
}

func TestDecodeARMSWI(t *testing.T) {
	instr := DecodeARM(0xEF000001)
	assert.Equal(t, OpSWI, instr.Op)
	assert.Equal(t, uint32(1), instr.Immediate)
}

func TestDecodeARMCoprocessorSpaceIsUndefined(t *testing.T) {
	instr := DecodeARM(0xEE000010)
	assert.Equal(t, OpUndefined, instr.Op)
}

func TestDecodeARMHalfwordTransfer(t *testing.T) {
	instr := DecodeARM(0xE1D100B0) // LDRH R0, [R1]
	assert.Equal(t, OpHalfSignedTransfer, instr.Op)
	assert.Equal(t, HalfH, instr.Half)
	assert.True(t, instr.L)
}

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBankingR13R14(t *testing.T) {
	r := NewRegisters()

	r.SetMode(ModeUSR)
	r.SetReg(13, 0x1000)
	r.SetReg(14, 0x2000)

	r.SetMode(ModeSVC)
	r.SetReg(13, 0x3000)
	r.SetReg(14, 0x4000)

	r.SetMode(ModeUSR)
	assert.Equal(t, uint32(0x1000), r.GetReg(13), "USR sp must survive a round trip through SVC")
	assert.Equal(t, uint32(0x2000), r.GetReg(14))

	r.SetMode(ModeSVC)
	assert.Equal(t, uint32(0x3000), r.GetReg(13))
	assert.Equal(t, uint32(0x4000), r.GetReg(14))
}

func TestRegisterBankingR8To12OnlyInFIQ(t *testing.T) {
	r := NewRegisters()

	r.SetMode(ModeUSR)
	r.SetReg(8, 0xAAAA)

	r.SetMode(ModeFIQ)
	r.SetReg(8, 0xBBBB)

	r.SetMode(ModeSVC)
	assert.Equal(t, uint32(0xAAAA), r.GetReg(8), "SVC shares the non-FIQ r8 bank with USR")

	r.SetMode(ModeFIQ)
	assert.Equal(t, uint32(0xBBBB), r.GetReg(8))
}

func TestSPSRAccessFromUSRRaisesModeFault(t *testing.T) {
	r := NewRegisters()
	r.SetMode(ModeUSR)

	_, err := r.GetSPSR()
	require.Error(t, err)
	var mf *ModeFault
	require.ErrorAs(t, err, &mf)

	err = r.SetSPSR(0x12345678)
	require.Error(t, err)
}

func TestSPSRAccessFromSYSRaisesModeFault(t *testing.T) {
	r := NewRegisters()
	r.SetMode(ModeSYS)

	_, err := r.GetSPSR()
	require.Error(t, err)
}

func TestSPSRRoundTripsInPrivilegedModes(t *testing.T) {
	r := NewRegisters()
	for _, m := range []Mode{ModeFIQ, ModeSVC, ModeABT, ModeUND, ModeIRQ} {
		r.SetMode(m)
		require.NoError(t, r.SetSPSR(0xDEAD0000|uint32(m)))
		got, err := r.GetSPSR()
		require.NoError(t, err)
		assert.Equal(t, uint32(0xDEAD0000)|uint32(m), got)
	}
}

func TestSetModeIllegalValueTriggersReset(t *testing.T) {
	r := NewRegisters()
	r.SetReg(0, 0x1111)
	r.SetMode(Mode(0x03)) // not one of the seven legal values

	assert.Equal(t, ModeSYS, r.Mode(), "an illegal mode value resets to the post-reset state")
	assert.Equal(t, uint32(0), r.GetReg(0))
}

func TestPCReadAddsPipelineOffset(t *testing.T) {
	r := NewRegisters()
	r.SetThumb(false)
	r.SetPC(0x1000)
	assert.Equal(t, uint32(0x1004), r.GetReg(15), "ARM r15 reads add 4 to the stored (already-advanced) PC, i.e. instruction address + 8")
	assert.Equal(t, uint32(0x1000), r.PC(), "the raw PC accessor is unaffected")

	r.SetThumb(true)
	r.SetPC(0x2000)
	assert.Equal(t, uint32(0x2002), r.GetReg(15), "Thumb r15 reads add 2 to the stored (already-advanced) PC, i.e. instruction address + 4")
}

func TestCheckConditionTable(t *testing.T) {
	r := NewRegisters()
	r.SetNZCV(true, false, true, false)

	assert.True(t, r.CheckCondition(CondMI))
	assert.False(t, r.CheckCondition(CondPL))
	assert.True(t, r.CheckCondition(CondCS))
	assert.False(t, r.CheckCondition(CondGE), "N=1 V=0 means N!=V, GE does not hold")
	assert.True(t, r.CheckCondition(CondAL))
	assert.True(t, r.CheckCondition(CondNV), "NV is treated as always-true, not always-false")
}

func TestCheckConditionGEWhenNEqualsV(t *testing.T) {
	r := NewRegisters()
	r.SetNZCV(true, false, false, true)
	assert.True(t, r.CheckCondition(CondGE), "N=1 V=1 means N==V, GE holds")
	assert.False(t, r.CheckCondition(CondLT))
}

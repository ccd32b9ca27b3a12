package cpu

// Condition is the four-bit condition-code prefix gating every ARM
// instruction (and the tail of most Thumb branches). Grounded on
// LJS360d-RoBA/internal/cpu/arm_instructions.go's ARMCondition enum, cross
// checked against original_source's check_condition table.
type Condition uint8

const (
	CondEQ Condition = 0x0
	CondNE Condition = 0x1
	CondCS Condition = 0x2
	CondCC Condition = 0x3
	CondMI Condition = 0x4
	CondPL Condition = 0x5
	CondVS Condition = 0x6
	CondVC Condition = 0x7
	CondHI Condition = 0x8
	CondLS Condition = 0x9
	CondGE Condition = 0xA
	CondLT Condition = 0xB
	CondGT Condition = 0xC
	CondLE Condition = 0xD
	CondAL Condition = 0xE
	CondNV Condition = 0xF
)

// Package emulator composes the CPU core and memory map behind the single
// host-facing boundary a frontend drives: load a ROM, step instructions or
// whole frames, and inspect state for debugging or save-state purposes.
//
// Grounded on original_source's lavender/src/emulator/mod.rs, whose Emulator
// struct is exactly this composition (cpu + memory, with load_rom/step_frame
// as the outer API), and on LJS360d-RoBA/main.go's wiring order (memory
// first, then a CPU constructed against it).
package emulator

import (
	"github.com/aslilac/lavender/internal/cpu"
	"github.com/aslilac/lavender/internal/memory"
)

// Emulator owns the whole machine: one memory map and one CPU wired to it.
type Emulator struct {
	mem *memory.Memory
	cpu *cpu.CPU
}

// New constructs an Emulator with an empty ROM slot and the CPU held at the
// reset vector.
func New() *Emulator {
	mem := memory.New()
	c := cpu.NewCPU(mem)
	e := &Emulator{mem: mem, cpu: c}
	e.cpu.Reset()
	return e
}

// LoadROM installs a cartridge image. The CPU is not reset and PC is left
// unchanged.
func (e *Emulator) LoadROM(data []byte) error {
	return e.mem.LoadROM(data)
}

// StepInstruction executes exactly one instruction and returns its cycle
// cost. The only error it can return is a ModeFault raised by an instruction
// that touched SPSR outside a privileged mode.
func (e *Emulator) StepInstruction() (uint32, error) {
	return e.cpu.StepInstruction()
}

// StepFrame runs one video frame's worth of instructions (FrameCycleBudget
// cycles), returning early with an error if one occurred mid-frame.
func (e *Emulator) StepFrame() error {
	return e.cpu.StepFrame()
}

// ReadRegisters snapshots r0..r15 as the current mode sees them.
func (e *Emulator) ReadRegisters() [16]uint32 {
	var out [16]uint32
	regs := e.cpu.Registers()
	for i := uint8(0); i < 16; i++ {
		if i == 15 {
			out[i] = regs.PC()
			continue
		}
		out[i] = regs.GetReg(i)
	}
	return out
}

// ReadCPSR returns the raw current program status register.
func (e *Emulator) ReadCPSR() uint32 {
	return e.cpu.Registers().CPSR()
}

// ReadNextInstruction returns the raw word (ARM) or zero-extended halfword
// (Thumb) the CPU will execute next, without advancing PC.
func (e *Emulator) ReadNextInstruction() uint32 {
	return e.cpu.PeekInstruction()
}

// Region-pointer passthroughs, for dumping or memory-mapped debugging.
func (e *Emulator) BIOS() []byte    { return e.mem.BIOS() }
func (e *Emulator) EWRAM() []byte   { return e.mem.EWRAM() }
func (e *Emulator) IWRAM() []byte   { return e.mem.IWRAM() }
func (e *Emulator) IO() []byte      { return e.mem.IO() }
func (e *Emulator) Palette() []byte { return e.mem.Palette() }
func (e *Emulator) VRAM() []byte    { return e.mem.VRAM() }
func (e *Emulator) OAM() []byte     { return e.mem.OAM() }
func (e *Emulator) ROM() []byte     { return e.mem.ROM() }
func (e *Emulator) SaveRAM() []byte { return e.mem.SaveRAM() }
